package vision

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
)

//go:embed labels/coco_classes_eng.json
var engLabelsJSON []byte

//go:embed labels/coco_classes_ukr.json
var ukrLabelsJSON []byte

// LangUkrainian selects Ukrainian class labels; any other value falls
// back to English.
const LangUkrainian = "ukr"

var (
	engLabels = mustLoadLabels(engLabelsJSON)
	ukrLabels = mustLoadLabels(ukrLabelsJSON)
)

func mustLoadLabels(data []byte) map[int]string {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		panic(fmt.Sprintf("vision: bad embedded label table: %v", err))
	}
	labels := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			panic(fmt.Sprintf("vision: bad label class id %q", k))
		}
		labels[id] = v
	}
	return labels
}

// LabelFor returns the display name of a detection class.
func LabelFor(lang string, classID int) string {
	table := engLabels
	if lang == LangUkrainian {
		table = ukrLabels
	}
	if name, ok := table[classID]; ok {
		return name
	}
	return fmt.Sprintf("class %d", classID)
}
