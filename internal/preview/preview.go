package preview

import "fmt"

const defaultName = "type-1"

// Preview is the image shown next to the calculator form.
type Preview struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Code  string `json:"code"`
}

var table = map[string]map[string]string{
	"2": {
		"noPartition":      "type-1",
		"doubleFixed":      "type-5",
		"fixedTop":         "type-3",
		"fixedBottom":      "type-3",
		"openAbleTopFxBtm": "type-10",
		"openAbleTop":      "type-69",
	},
	"3": {
		"noPartition":      "type-2",
		"doubleFixed":      "type-6",
		"fixedTop":         "type-4",
		"fixedBottom":      "type-4",
		"openAbleTopFxBtm": "type-11",
		"openAbleTop":      "type-69",
	},
	"4": {
		"noPartition":      "type-69",
		"doubleFixed":      "type-69",
		"fixedTop":         "type-69",
		"fixedBottom":      "type-69",
		"openAbleTopFxBtm": "type-69",
		"openAbleTop":      "type-69",
	},
}

// Lookup maps a panel count and partition style to a preview. Unknown
// combinations get the default two-panel image.
func Lookup(noOfPanels, fixedPartition string) Preview {
	name := defaultName
	if byPartition, ok := table[noOfPanels]; ok {
		if n, ok := byPartition[fixedPartition]; ok {
			name = n
		}
	}
	return Preview{
		Name:  name,
		Image: fmt.Sprintf("img/previewLabels/%s.png", name),
		Code:  "#" + name,
	}
}
