package features

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/smallbiznis/pixomat/internal/stash"
	"github.com/smallbiznis/pixomat/internal/vision"
)

// imageAI bundles the segmentation pipeline dependencies shared by the
// background and object features.
type imageAI struct {
	engine         *vision.Engine
	inpainter      vision.Inpainter
	stash          stash.Store
	backgroundsDir string
}

// stockBackgrounds maps the numbered stock backgrounds shipped with the
// service to their files under the backgrounds directory.
var stockBackgrounds = map[int]string{
	1:  "city.jpg",
	2:  "beach.jpg",
	3:  "desert.jpg",
	4:  "field.jpg",
	5:  "forest_autumn.jpg",
	6:  "forest.jpg",
	7:  "mountains.jpg",
	8:  "snow_mountains.jpg",
	9:  "office.jpg",
	10: "underwater.jpg",
}

// stashPayload is the detection set carried between the two legs of a
// pick/cut interaction. Masks serialize with their pixels base64-packed.
type stashPayload struct {
	Objects []vision.Object `json:"objects"`
}

func (ai *imageAI) ready() error {
	if ai.engine == nil {
		return fmt.Errorf("%w: segmentation model not configured", dispatch.ErrUpstream)
	}
	return nil
}

func (ai *imageAI) removeBackground(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if err := ai.ready(); err != nil {
		return nil, err
	}
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	_, objects, err := ai.engine.Infer(ctx, img, req.Option("language", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrUpstream, err)
	}

	mask, err := vision.MainMask(objects)
	if err != nil {
		return nil, err
	}

	artifact, err := encodePNG(vision.ApplyAlphaMask(img, mask), "remove_background.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: artifact}, nil
}

func (ai *imageAI) editBackground(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if err := ai.ready(); err != nil {
		return nil, err
	}
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}
	background, err := ai.backgroundImage(req)
	if err != nil {
		return nil, err
	}

	_, objects, err := ai.engine.Infer(ctx, img, req.Option("language", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrUpstream, err)
	}

	mask, err := vision.MainMask(objects)
	if err != nil {
		return nil, err
	}

	artifact, err := encodePNG(vision.ReplaceBackground(img, background, mask), "edited_background.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: artifact}, nil
}

// backgroundImage resolves the replacement background: an uploaded file
// when present, otherwise the numbered stock background from background_id.
func (ai *imageAI) backgroundImage(req dispatch.Request) (image.Image, error) {
	if req.Background != nil && len(req.Background.Data) > 0 {
		return decodeUpload(req.Background)
	}
	raw := strings.TrimSpace(req.Option("background_id", ""))
	if raw == "" {
		return nil, fmt.Errorf("%w: no background provided", dispatch.ErrInvalidInput)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid background_id %q", dispatch.ErrInvalidInput, raw)
	}
	name, ok := stockBackgrounds[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown background_id %d", dispatch.ErrInvalidInput, id)
	}
	data, err := os.ReadFile(filepath.Join(ai.backgroundsDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: background %d unavailable", dispatch.ErrInvalidInput, id)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}
	return img, nil
}

// detectPhase runs segmentation, stashes the detections under the
// caller's session, and returns the annotated preview. A repeated call
// replaces the previous stash wholesale.
func (ai *imageAI) detectPhase(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	annotated, objects, err := ai.engine.Infer(ctx, img, req.Option("language", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrUpstream, err)
	}

	payload, err := json.Marshal(stashPayload{Objects: objects})
	if err != nil {
		return nil, err
	}
	if err := ai.stash.Put(ctx, req.SessionKey, payload); err != nil {
		return nil, fmt.Errorf("stash detections: %w", err)
	}

	preview, err := encodePNG(annotated, "segmented_image.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Preview: &dispatch.Preview{
		Artifact: *preview,
		Objects:  vision.Labels(objects),
	}}, nil
}

func (ai *imageAI) stashedObjects(ctx context.Context, sessionKey string) ([]vision.Object, error) {
	data, ok, err := ai.stash.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load detections: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no detections for this session, run the detect step first", dispatch.ErrInvalidInput)
	}
	var payload stashPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}
	return payload.Objects, nil
}

func parseObjectList(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}

// pickUpObject keeps only the selected objects, background transparent.
// Without an objects option it runs the detect phase.
func (ai *imageAI) pickUpObject(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if err := ai.ready(); err != nil {
		return nil, err
	}
	selection := req.Option("objects", "")
	if selection == "" {
		return ai.detectPhase(ctx, req)
	}

	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}
	objects, err := ai.stashedObjects(ctx, req.SessionKey)
	if err != nil {
		return nil, err
	}

	mask, err := vision.PickSelected(objects, parseObjectList(selection))
	if err != nil {
		return nil, err
	}

	artifact, err := encodePNG(vision.ApplyAlphaMask(img, mask), "picked.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: artifact}, nil
}

// cutOutObject removes the selected objects and inpaints the hole.
// Without an objects option it runs the detect phase.
func (ai *imageAI) cutOutObject(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if err := ai.ready(); err != nil {
		return nil, err
	}
	if ai.inpainter == nil {
		return nil, fmt.Errorf("%w: inpainting model not configured", dispatch.ErrUpstream)
	}
	selection := req.Option("objects", "")
	if selection == "" {
		return ai.detectPhase(ctx, req)
	}

	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}
	objects, err := ai.stashedObjects(ctx, req.SessionKey)
	if err != nil {
		return nil, err
	}

	result, err := vision.CutOut(ctx, ai.inpainter, img, objects, parseObjectList(selection))
	if err != nil {
		return nil, err
	}

	artifact, err := encodePNG(result, "cut_out.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: artifact}, nil
}
