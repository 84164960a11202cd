package features

import (
	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/smallbiznis/pixomat/internal/stash"
	"github.com/smallbiznis/pixomat/internal/vision"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config    config.Config
	Log       *zap.Logger
	Stash     stash.Store
	Engine    *vision.Engine   `optional:"true"`
	Inpainter vision.Inpainter `optional:"true"`
}

// NewRegistry binds every catalog feature key to its handler. A feature
// key present in the catalog but absent here surfaces as a handler
// binding error at invoke time, so keep this table in sync with the
// seeded groups.
func NewRegistry(p Params) dispatch.Registry {
	registry := dispatch.Registry{
		"black_and_white": dispatch.HandlerFunc(blackAndWhite),
		"round_image":     dispatch.HandlerFunc(roundImage),
		"pixelate_image":  dispatch.HandlerFunc(pixelateImage),
		"blur_image":      dispatch.HandlerFunc(blurImage),
		"compress_image":  dispatch.HandlerFunc(compressImage),
		"png_to_jpg":      dispatch.HandlerFunc(pngToJPG),
		"tiff_to_jpg":     dispatch.HandlerFunc(tiffToJPG),

		"xml_to_json":  dispatch.HandlerFunc(xmlToJSON),
		"json_to_xml":  dispatch.HandlerFunc(jsonToXML),
		"xml_to_csv":   dispatch.HandlerFunc(xmlToCSV),
		"json_to_csv":  dispatch.HandlerFunc(jsonToCSV),
		"xls_to_csv":   dispatch.HandlerFunc(xlsToCSV),
		"xls_to_json":  dispatch.HandlerFunc(xlsToJSON),
		"xls_to_xml":   dispatch.HandlerFunc(xlsToXML),
		"compress_pdf": dispatch.HandlerFunc(compressPDF),
	}

	generator := newGenerator(p.Config, p.Log)
	for key := range textPrompts {
		registry[key] = textHandler(generator, key)
	}

	ai := &imageAI{
		engine:         p.Engine,
		inpainter:      p.Inpainter,
		stash:          p.Stash,
		backgroundsDir: p.Config.BackgroundsDir,
	}
	registry["remove_background"] = dispatch.HandlerFunc(ai.removeBackground)
	registry["edit_background"] = dispatch.HandlerFunc(ai.editBackground)
	registry["pick_up_object"] = dispatch.HandlerFunc(ai.pickUpObject)
	registry["cut_out_object"] = dispatch.HandlerFunc(ai.cutOutObject)

	return registry
}

func newGenerator(cfg config.Config, log *zap.Logger) Generator {
	if cfg.MockGeneration || cfg.OpenAIAPIKey == "" {
		if !cfg.MockGeneration {
			log.Warn("no OpenAI API key configured, text generation is mocked")
		}
		return NewMockGenerator()
	}
	return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
}

var Module = fx.Module("features",
	fx.Provide(NewRegistry),
)
