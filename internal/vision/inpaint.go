package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// InpaintPrompt steers the diffusion model when filling a cut-out hole.
const InpaintPrompt = "blends seamlessly with the surrounding area"

// Inpainter fills masked regions of an image from a text prompt.
type Inpainter interface {
	Inpaint(ctx context.Context, img image.Image, mask Mask, prompt string) (image.Image, error)
}

type httpInpainter struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPInpainter talks to an inpainting model server over JSON:
// POST <url>/inpaint with base64 PNG image and mask, image back.
func NewHTTPInpainter(url string, timeout time.Duration, log *zap.Logger) Inpainter {
	return &httpInpainter{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("vision.inpainter"),
	}
}

type inpaintRequest struct {
	Image  string `json:"image"`
	Mask   string `json:"mask"`
	Prompt string `json:"prompt"`
}

type inpaintResponse struct {
	Image string `json:"image"`
}

func (p *httpInpainter) Inpaint(ctx context.Context, img image.Image, mask Mask, prompt string) (image.Image, error) {
	imgB64, err := encodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	maskB64, err := encodePNGBase64(mask.ToImage())
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(inpaintRequest{Image: imgB64, Mask: maskB64, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/inpaint", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inpainting request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inpainting server returned %d", resp.StatusCode)
	}

	var out inpaintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode inpainting response: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(out.Image)
	if err != nil {
		return nil, fmt.Errorf("decode inpainted image: %w", err)
	}
	result, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse inpainted image: %w", err)
	}

	p.log.Debug("inpainting complete", zap.Duration("took", time.Since(started)))
	return result, nil
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
