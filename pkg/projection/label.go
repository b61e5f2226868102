package projection

import (
	"sort"
	"strings"

	"github.com/docugraph/backend/pkg/store"
)

// labelCandidates are the property names tried first when inferring a
// node's display label, in priority order.
var labelCandidates = []string{"name", "title", "caption", "label", "text", "content", "value"}

// isDisplayString reports whether a property value is usable as a
// display label: a non-blank string that does not look like a
// store-internal element id. Internal ids tend to contain a colon and
// run long; genuine display strings rarely do both.
func isDisplayString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if strings.Contains(s, ":") && len(s) > 20 {
		return "", false
	}
	return s, true
}

// inferLabel resolves the display label of one stored node. It tries
// the known display properties in order, then every remaining property
// in sorted key order, then the node's first category label, and
// finally "Unknown".
func inferLabel(node store.StoredNode) string {
	for _, key := range labelCandidates {
		if s, ok := isDisplayString(node.Properties[key]); ok {
			return s
		}
	}

	keys := make([]string, 0, len(node.Properties))
	for key := range node.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if s, ok := isDisplayString(node.Properties[key]); ok {
			return s
		}
	}

	if len(node.Labels) > 0 && !strings.EqualFold(node.Labels[0], "Entity") {
		return node.Labels[0]
	}
	return "Unknown"
}

// groupForNode returns the node's first category label, falling back
// to the generic category when the store returned none.
func groupForNode(node store.StoredNode) string {
	if len(node.Labels) > 0 {
		return node.Labels[0]
	}
	return "Entity"
}
