package vision

import (
	"context"
	"image"

	"go.uber.org/zap"
)

// Engine turns a raw image into an annotated preview plus the object set
// that the compositing operations consume.
type Engine struct {
	detector Detector
	log      *zap.Logger
	lang     string
}

func NewEngine(detector Detector, log *zap.Logger, lang string) *Engine {
	return &Engine{
		detector: detector,
		log:      log.Named("vision.engine"),
		lang:     lang,
	}
}

// Infer runs segmentation and annotates every detection. Zero detections
// is not an error here: the annotated image is then just the input, and
// callers that need objects decide what an empty set means.
func (e *Engine) Infer(ctx context.Context, img image.Image, lang string) (*image.NRGBA, []Object, error) {
	if lang == "" {
		lang = e.lang
	}

	detections, err := e.detector.Detect(ctx, img)
	if err != nil {
		return nil, nil, err
	}

	b := img.Bounds()
	objects := BuildObjects(detections, b.Dx(), b.Dy(), lang)
	annotated := Annotate(img, objects)

	e.log.Debug("inference complete", zap.Int("objects", len(objects)))
	return annotated, objects, nil
}
