package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Detection is one segmented instance as returned by the model server.
type Detection struct {
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"`
	Polygon    [][2]int   `json:"polygon"`
}

// Detector runs instance segmentation over an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

type httpDetector struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewHTTPDetector talks to a segmentation model server over JSON:
// POST <url>/detect with a base64 JPEG, detections back.
func NewHTTPDetector(url string, timeout time.Duration, log *zap.Logger) Detector {
	return &httpDetector{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("vision.detector"),
	}
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

func (d *httpDetector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	body, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("segmentation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segmentation server returned %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode segmentation response: %w", err)
	}

	d.log.Debug("segmentation complete",
		zap.Int("detections", len(out.Detections)),
		zap.Duration("took", time.Since(started)),
	)
	return out.Detections, nil
}
