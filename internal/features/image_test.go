package features

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 90,
				A: 255,
			})
		}
	}
	return img
}

func jpegUpload(t *testing.T, img image.Image) *dispatch.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return &dispatch.Upload{Name: "input.jpg", Data: buf.Bytes()}
}

func pngUpload(t *testing.T, img image.Image) *dispatch.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &dispatch.Upload{Name: "input.png", Data: buf.Bytes()}
}

func decodeArtifact(t *testing.T, artifact *dispatch.Artifact) image.Image {
	t.Helper()
	require.NotNil(t, artifact)
	img, _, err := image.Decode(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	return img
}

func TestBlackAndWhiteProducesGrayscale(t *testing.T) {
	req := dispatch.Request{File: jpegUpload(t, testImage(24, 16))}
	result, err := blackAndWhite(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, "bw_image.jpg", result.Artifact.Name)
	assert.Equal(t, "image/jpeg", result.Artifact.MIME)

	out := decodeArtifact(t, result.Artifact)
	assert.Equal(t, 24, out.Bounds().Dx())
	for y := 0; y < 16; y += 5 {
		for x := 0; x < 24; x += 7 {
			r, g, b, _ := out.At(x, y).RGBA()
			assert.Equal(t, r, g)
			assert.Equal(t, g, b)
		}
	}
}

func TestBlackAndWhiteRejectsMissingFile(t *testing.T) {
	_, err := blackAndWhite(context.Background(), dispatch.Request{})
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}

func TestRoundImageMasksCorners(t *testing.T) {
	req := dispatch.Request{File: pngUpload(t, testImage(40, 30))}
	result, err := roundImage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "round_image.png", result.Artifact.Name)

	out := decodeArtifact(t, result.Artifact)
	assert.Equal(t, 30, out.Bounds().Dx(), "crops to the smaller dimension")
	assert.Equal(t, 30, out.Bounds().Dy())

	_, _, _, cornerA := out.At(0, 0).RGBA()
	assert.Zero(t, cornerA, "corner is outside the circle")
	_, _, _, centerA := out.At(15, 15).RGBA()
	assert.NotZero(t, centerA)
}

func TestPixelateImageKeepsDimensions(t *testing.T) {
	req := dispatch.Request{File: jpegUpload(t, testImage(50, 40))}
	result, err := pixelateImage(context.Background(), req)
	require.NoError(t, err)

	out := decodeArtifact(t, result.Artifact)
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())
}

func TestBlurImageRejectsBadIntensity(t *testing.T) {
	req := dispatch.Request{
		File:    jpegUpload(t, testImage(10, 10)),
		Options: map[string]string{"blur_intensity": "soft"},
	}
	_, err := blurImage(context.Background(), req)
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}

func TestBlurImageSmoothsEdges(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			c := color.NRGBA{A: 255}
			if x >= 15 {
				c.R, c.G, c.B = 255, 255, 255
			}
			img.SetNRGBA(x, y, c)
		}
	}

	req := dispatch.Request{File: pngUpload(t, img)}
	result, err := blurImage(context.Background(), req)
	require.NoError(t, err)

	out := decodeArtifact(t, result.Artifact)
	r, _, _, _ := out.At(15, 15).RGBA()
	assert.Greater(t, r, uint32(0x1000), "edge pixel picked up white neighbors")
	assert.Less(t, r, uint32(0xf000), "edge pixel picked up black neighbors")
}

func TestCompressImageClampsQuality(t *testing.T) {
	req := dispatch.Request{
		File:    jpegUpload(t, testImage(20, 20)),
		Options: map[string]string{"compression_quality": "400"},
	}
	result, err := compressImage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "compressed_image.jpg", result.Artifact.Name)
	decodeArtifact(t, result.Artifact)
}

func TestPngToJPGFlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	req := dispatch.Request{File: pngUpload(t, img)}

	result, err := pngToJPG(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "converted_image.jpg", result.Artifact.Name)

	out := decodeArtifact(t, result.Artifact)
	r, g, b, _ := out.At(4, 4).RGBA()
	assert.Greater(t, r, uint32(0xf000), "transparent pixels composite onto white")
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestPngToJPGRejectsNonPNG(t *testing.T) {
	req := dispatch.Request{File: jpegUpload(t, testImage(8, 8))}
	_, err := pngToJPG(context.Background(), req)
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}
