package vision

import (
	"github.com/smallbiznis/pixomat/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func provideDetector(p Params) Detector {
	if p.Config.SegmenterURL == "" {
		return nil
	}
	return NewHTTPDetector(p.Config.SegmenterURL, p.Config.ModelTimeout, p.Log)
}

func provideInpainter(p Params) Inpainter {
	if p.Config.InpainterURL == "" {
		return nil
	}
	return NewHTTPInpainter(p.Config.InpainterURL, p.Config.ModelTimeout, p.Log)
}

func provideEngine(p Params, detector Detector) *Engine {
	if detector == nil {
		return nil
	}
	return NewEngine(detector, p.Log, p.Config.DefaultLang)
}

var Module = fx.Module("vision",
	fx.Provide(provideDetector),
	fx.Provide(provideInpainter),
	fx.Provide(provideEngine),
)
