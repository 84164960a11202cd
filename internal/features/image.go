// Package features implements the handler behind every catalog key.
package features

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strconv"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/smallbiznis/pixomat/internal/vision"
	"golang.org/x/image/tiff"
)

const (
	defaultPixelSize   = 5
	defaultBlurRadius  = 5
	defaultJPEGQuality = 70
)

func decodeUpload(upload *dispatch.Upload) (image.Image, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: no image provided", dispatch.ErrInvalidInput)
	}
	img, _, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}
	return img, nil
}

func encodeJPEG(img image.Image, quality int) (*dispatch.Artifact, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return &dispatch.Artifact{Name: "image.jpg", MIME: "image/jpeg", Data: buf.Bytes()}, nil
}

func encodePNG(img image.Image, name string) (*dispatch.Artifact, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &dispatch.Artifact{Name: name, MIME: "image/png", Data: buf.Bytes()}, nil
}

func blackAndWhite(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	artifact, err := encodeJPEG(gray, 90)
	if err != nil {
		return nil, err
	}
	artifact.Name = "bw_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

// roundImage crops the top-left square of the minimum dimension and
// masks it with a circle, transparent outside.
func roundImage(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	size := b.Dx()
	if b.Dy() < size {
		size = b.Dy()
	}

	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	radius := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if dx*dx+dy*dy > radius*radius {
				c.A = 0
			}
			out.SetNRGBA(x, y, c)
		}
	}

	artifact, err := encodePNG(out, "round_image.png")
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Artifact: artifact}, nil
}

// pixelateImage shrinks with interpolation and blows back up without it.
func pixelateImage(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	smallW, smallH := w/defaultPixelSize, h/defaultPixelSize
	if smallW < 1 {
		smallW = 1
	}
	if smallH < 1 {
		smallH = 1
	}

	small := vision.Resize(img, smallW, smallH)
	pixelated := vision.ResizeNearest(small, w, h)

	artifact, err := encodeJPEG(pixelated, 90)
	if err != nil {
		return nil, err
	}
	artifact.Name = "pixelated_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

func blurImage(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	radius, err := strconv.Atoi(req.Option("blur_intensity", strconv.Itoa(defaultBlurRadius)))
	if err != nil || radius < 0 {
		return nil, fmt.Errorf("%w: bad blur_intensity", dispatch.ErrInvalidInput)
	}

	blurred := gaussianBlur(img, float64(radius))

	artifact, err := encodeJPEG(blurred, 90)
	if err != nil {
		return nil, err
	}
	artifact.Name = "blurred_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

func compressImage(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	img, err := decodeUpload(req.File)
	if err != nil {
		return nil, err
	}

	quality, err := strconv.Atoi(req.Option("compression_quality", strconv.Itoa(defaultJPEGQuality)))
	if err != nil {
		return nil, fmt.Errorf("%w: bad compression_quality", dispatch.ErrInvalidInput)
	}
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	artifact, err := encodeJPEG(img, quality)
	if err != nil {
		return nil, err
	}
	artifact.Name = "compressed_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

func pngToJPG(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no image provided", dispatch.ErrInvalidInput)
	}
	img, err := png.Decode(bytes.NewReader(req.File.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}

	artifact, err := encodeJPEG(flattenOnWhite(img), 90)
	if err != nil {
		return nil, err
	}
	artifact.Name = "converted_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

func tiffToJPG(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no image provided", dispatch.ErrInvalidInput)
	}
	img, err := tiff.Decode(bytes.NewReader(req.File.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}

	artifact, err := encodeJPEG(flattenOnWhite(img), 90)
	if err != nil {
		return nil, err
	}
	artifact.Name = "converted_image.jpg"
	return &dispatch.Result{Artifact: artifact}, nil
}

// flattenOnWhite drops the alpha channel by compositing over white, the
// conventional treatment before JPEG encoding.
func flattenOnWhite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A < 255 {
				a := uint32(c.A)
				c.R = uint8((uint32(c.R)*a + 255*(255-a)) / 255)
				c.G = uint8((uint32(c.G)*a + 255*(255-a)) / 255)
				c.B = uint8((uint32(c.B)*a + 255*(255-a)) / 255)
				c.A = 255
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// gaussianBlur applies a separable gaussian with sigma equal to the
// radius, kernel truncated at three sigma.
func gaussianBlur(img image.Image, sigma float64) *image.NRGBA {
	src := vision.Resize(img, img.Bounds().Dx(), img.Bounds().Dy())
	if sigma <= 0 {
		return src
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float64, 2*half+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	convolve1D(src, tmp, kernel, half, true)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	convolve1D(tmp, out, kernel, half, false)
	return out
}

func convolve1D(src, dst *image.NRGBA, kernel []float64, half int, horizontal bool) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k, weight := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clamp(x+k-half, 0, w-1)
				} else {
					sy = clamp(y+k-half, 0, h-1)
				}
				i := src.PixOffset(sx, sy)
				r += weight * float64(src.Pix[i])
				g += weight * float64(src.Pix[i+1])
				b += weight * float64(src.Pix[i+2])
				a += weight * float64(src.Pix[i+3])
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i] = uint8(r + 0.5)
			dst.Pix[i+1] = uint8(g + 0.5)
			dst.Pix[i+2] = uint8(b + 0.5)
			dst.Pix[i+3] = uint8(a + 0.5)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
