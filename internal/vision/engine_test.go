package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDetector struct {
	detections []Detection
}

func (f *fakeDetector) Detect(context.Context, image.Image) ([]Detection, error) {
	return f.detections, nil
}

func TestBuildObjectsDisambiguatesLabels(t *testing.T) {
	detections := []Detection{
		{ClassID: 15, Polygon: [][2]int{{1, 1}, {4, 1}, {4, 4}, {1, 4}}},
		{ClassID: 15, Polygon: [][2]int{{5, 5}, {8, 5}, {8, 8}, {5, 8}}},
		{ClassID: 16, Polygon: [][2]int{{0, 0}, {2, 0}, {2, 2}, {0, 2}}},
		{ClassID: 15, Polygon: [][2]int{{1, 6}, {3, 6}, {3, 8}, {1, 8}}},
	}

	objects := BuildObjects(detections, 10, 10, "eng")
	assert.Equal(t, []string{"cat", "cat 1", "dog", "cat 2"}, Labels(objects))
}

func TestBuildObjectsColorsAreDeterministic(t *testing.T) {
	detections := []Detection{
		{ClassID: 3, Polygon: [][2]int{{0, 0}, {3, 0}, {3, 3}, {0, 3}}},
		{ClassID: 3, Polygon: [][2]int{{4, 4}, {7, 4}, {7, 7}, {4, 7}}},
		{ClassID: 28, Polygon: [][2]int{{0, 4}, {2, 4}, {2, 7}, {0, 7}}},
	}

	objects := BuildObjects(detections, 10, 10, "eng")
	assert.Equal(t, objects[0].Color, objects[1].Color, "same class, same color")
	assert.Equal(t, ColorForClass(3), objects[0].Color)
	assert.Equal(t, ColorForClass(28), objects[2].Color, "class ids beyond the palette wrap around")
}

func TestColorForClassWraps(t *testing.T) {
	assert.Equal(t, palette[0], ColorForClass(0))
	assert.Equal(t, palette[0], ColorForClass(len(palette)))
	assert.Equal(t, palette[3], ColorForClass(len(palette)+3))
}

func TestLabelForLanguages(t *testing.T) {
	assert.Equal(t, "cat", LabelFor("eng", 15))
	assert.Equal(t, "кіт", LabelFor(LangUkrainian, 15))
	assert.Equal(t, "cat", LabelFor("fr", 15), "unknown languages fall back to English")
}

func TestInferZeroDetectionsReturnsInput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 120
	}

	engine := NewEngine(&fakeDetector{}, zap.NewNop(), "eng")
	annotated, objects, err := engine.Infer(context.Background(), img, "")
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Equal(t, img.Pix, annotated.Pix)
}

func TestInferAnnotatesDetections(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}

	engine := NewEngine(&fakeDetector{detections: []Detection{
		{ClassID: 0, Polygon: [][2]int{{8, 8}, {24, 8}, {24, 24}, {8, 24}}},
	}}, zap.NewNop(), "eng")

	annotated, objects, err := engine.Infer(context.Background(), img, "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "person", objects[0].Label)
	assert.True(t, objects[0].Mask.Area() > 0)
	assert.NotEqual(t, img.Pix, annotated.Pix, "overlay changes masked pixels")
}
