package vision

import "fmt"

// Object is one detected instance carried through a request. Labels are
// unique within a set: the first instance of a class keeps the bare class
// name, repeats get " 1", " 2" and so on appended in detection order.
type Object struct {
	Label      string     `json:"label"`
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	Color      string     `json:"color"`
	Box        [4]float64 `json:"box"`
	Polygon    [][2]int   `json:"polygon"`
	Mask       Mask       `json:"mask"`
}

// BuildObjects converts raw detections into labeled objects with filled
// masks. Order is preserved; it is the tie-break for main object choice.
func BuildObjects(detections []Detection, width, height int, lang string) []Object {
	objects := make([]Object, 0, len(detections))
	counters := make(map[string]int)
	for _, det := range detections {
		mask := NewMask(width, height)
		mask.FillPolygon(det.Polygon)

		className := LabelFor(lang, det.ClassID)
		label := className
		if n := counters[className]; n > 0 {
			label = fmt.Sprintf("%s %d", className, n)
		}
		counters[className]++

		objects = append(objects, Object{
			Label:      label,
			ClassID:    det.ClassID,
			Confidence: det.Confidence,
			Color:      ColorForClass(det.ClassID),
			Box:        det.Box,
			Polygon:    det.Polygon,
			Mask:       mask,
		})
	}
	return objects
}

// Labels lists object labels in detection order.
func Labels(objects []Object) []string {
	labels := make([]string, len(objects))
	for i, obj := range objects {
		labels[i] = obj.Label
	}
	return labels
}

// FindByLabel returns the object with the given label, or false.
func FindByLabel(objects []Object, label string) (Object, bool) {
	for _, obj := range objects {
		if obj.Label == label {
			return obj, true
		}
	}
	return Object{}, false
}
