package vision

import (
	"fmt"
	"image/color"
)

// Display colors assigned to detections by class id, so the same class
// always renders the same color within and across requests.
var palette = []string{
	"#B52CFF",
	"#348F00",
	"#6B2CFF",
	"#FFFF2C",
	"#FF3535",
	"#FF7A00",
	"#0DA3FF",
	"#FFD700",
	"#20C9A5",
	"#E91E63",
	"#D4AC2B",
	"#8CFF00",
	"#FF007A",
	"#2E91E5",
	"#AFFF3C",
	"#C71585",
	"#FF6F00",
	"#009688",
	"#FFCC00",
	"#4A90E2",
	"#00BCD4",
	"#CDDC39",
	"#FF4081",
	"#795548",
	"#FFC400",
}

// ColorForClass returns the hex display color for a class id.
func ColorForClass(classID int) string {
	if classID < 0 {
		classID = -classID
	}
	return palette[classID%len(palette)]
}

// ParseHexColor converts "#RRGGBB" to an opaque RGBA color.
func ParseHexColor(hex string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
