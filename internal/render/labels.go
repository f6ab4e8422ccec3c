package render

var typeLabels = map[string]string{
	"type1":  "2 Panel Sliding Window",
	"type2":  "2 Panel Sliding Window with Fixed",
	"type3":  "2 Panel Sliding Window with Double Fixed",
	"type4":  "3 Panel Sliding Window",
	"type5":  "3 Panel Sliding Window with Fixed",
	"type6":  "3 Panel Sliding Window with Double Fixed",
	"type7":  "4 Panel Sliding Window",
	"type8":  "4 Panel Sliding Window with Fixed",
	"type9":  "4 Panel Sliding Window with Double Fixed",
	"type10": "2 Panel with Openable Top",
	"type11": "3 Panel with Openable Top",
	"type12": "4 Panel with Openable Top",
	"type13": "Single Top-Hung Window",
	"type14": "Double Top-Hung Window",
	"type15": "Custom Projecting Light Window",
	"type16": "Single Centre-Hung Window",
	"type17": "Sliding with Awning Top",
	"type18": "4 Panel Folding Window",
	"type19": "3 Panel Folding Window",
}

// TypeLabel returns the display name of a window type, or the raw type.
func TypeLabel(windowType string) string {
	if label, ok := typeLabels[windowType]; ok {
		return label
	}
	return windowType
}
