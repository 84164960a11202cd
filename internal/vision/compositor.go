package vision

import (
	"context"
	"image"
	"math"
)

const (
	defaultProximity = 20.0

	cutOutDilateKernel     = 10
	cutOutDilateIterations = 5
	inpaintSize            = 512
)

// MainObjectIndex picks the object with the largest mask area. Ties go
// to the earliest detection.
func MainObjectIndex(objects []Object) int {
	best := 0
	bestArea := -1
	for i, obj := range objects {
		if area := obj.Mask.Area(); area > bestArea {
			best = i
			bestArea = area
		}
	}
	return best
}

// CombineAroundMain unions the main object's mask with every object whose
// bounding box sits within threshold pixels of the main box on any one
// edge: left with left, top with top, right with right, bottom with
// bottom. One close edge is enough.
func CombineAroundMain(objects []Object, mainIdx int, threshold float64) Mask {
	main := objects[mainIdx]
	combined := main.Mask.Clone()
	for i, obj := range objects {
		if i == mainIdx {
			continue
		}
		if boxesNear(main.Box, obj.Box, threshold) {
			combined = combined.Or(obj.Mask)
		}
	}
	return combined
}

func boxesNear(a, b [4]float64, threshold float64) bool {
	return math.Abs(a[0]-b[0]) <= threshold ||
		math.Abs(a[1]-b[1]) <= threshold ||
		math.Abs(a[2]-b[2]) <= threshold ||
		math.Abs(a[3]-b[3]) <= threshold
}

// MainMask is the background-op foreground: the main object plus its
// nearby companions at the default proximity.
func MainMask(objects []Object) (Mask, error) {
	if len(objects) == 0 {
		return Mask{}, ErrNoObjectsDetected
	}
	return CombineAroundMain(objects, MainObjectIndex(objects), defaultProximity), nil
}

// PickSelected unions the masks of the named objects. Every label must
// be present in the detection set.
func PickSelected(objects []Object, labels []string) (Mask, error) {
	if len(objects) == 0 {
		return Mask{}, ErrNoObjectsDetected
	}
	if len(labels) == 0 {
		return Mask{}, ErrInvalidSelection
	}
	merged := NewMask(objects[0].Mask.W, objects[0].Mask.H)
	for _, label := range labels {
		obj, ok := FindByLabel(objects, label)
		if !ok {
			return Mask{}, ErrInvalidSelection
		}
		merged = merged.Or(obj.Mask)
	}
	return merged, nil
}

// ApplyAlphaMask returns the image as NRGBA with the mask as its alpha
// channel, unmasked pixels fully transparent.
func ApplyAlphaMask(img image.Image, mask Mask) *image.NRGBA {
	out := toNRGBA(img)
	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := out.PixOffset(x, y)
			if mask.At(x, y) != 0 {
				out.Pix[i+3] = 255
			} else {
				out.Pix[i+3] = 0
			}
		}
	}
	return out
}

// ReplaceBackground scales the background to the source size and lays
// the masked foreground over it.
func ReplaceBackground(img, background image.Image, mask Mask) *image.NRGBA {
	b := img.Bounds()
	out := Resize(background, b.Dx(), b.Dy())
	fg := ApplyAlphaMask(img, mask)
	alphaComposite(out, fg)
	return out
}

// alphaComposite draws src over dst in place, straight-alpha blending.
func alphaComposite(dst, src *image.NRGBA) {
	for i := 0; i < len(dst.Pix) && i < len(src.Pix); i += 4 {
		a := uint32(src.Pix[i+3])
		if a == 0 {
			continue
		}
		if a == 255 {
			copy(dst.Pix[i:i+4], src.Pix[i:i+4])
			continue
		}
		inv := 255 - a
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = uint8((uint32(src.Pix[i+c])*a + uint32(dst.Pix[i+c])*inv) / 255)
		}
		da := uint32(dst.Pix[i+3])
		dst.Pix[i+3] = uint8(a + da*inv/255)
	}
}

// CutOut removes the selected objects and fills the hole with inpainted
// background. The mask is dilated to cover object outlines, both image
// and mask are resized to the model's working size, and the result is
// scaled back to the original dimensions.
func CutOut(ctx context.Context, inpainter Inpainter, img image.Image, objects []Object, labels []string) (image.Image, error) {
	mask, err := PickSelected(objects, labels)
	if err != nil {
		return nil, err
	}

	padded := mask.Dilate(cutOutDilateKernel, cutOutDilateIterations)

	b := img.Bounds()
	workImg := Resize(img, inpaintSize, inpaintSize)
	workMask := ResizeMask(padded, inpaintSize, inpaintSize)

	inpainted, err := inpainter.Inpaint(ctx, workImg, workMask, InpaintPrompt)
	if err != nil {
		return nil, err
	}

	return Resize(inpainted, b.Dx(), b.Dy()), nil
}
