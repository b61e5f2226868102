package projection

import "strings"

const defaultColor = "#95a5a6"

// groupColors maps category labels to their fixed render color. The
// lookup is case-insensitive; unrecognized categories fall back to a
// neutral gray.
var groupColors = map[string]string{
	"DOCUMENT":     "#3498db",
	"PERSON":       "#e74c3c",
	"ORGANIZATION": "#2ecc71",
	"CONCEPT":      "#f39c12",
	"LOCATION":     "#9b59b6",
	"ENTITY":       defaultColor,
}

// colorForGroup returns the render color of a category label.
func colorForGroup(group string) string {
	if color, ok := groupColors[strings.ToUpper(group)]; ok {
		return color
	}
	return defaultColor
}
