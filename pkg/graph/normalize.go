package graph

import (
	"strings"

	"github.com/docugraph/backend/pkg/common"
)

// resolveDisplayName picks the human-readable name for a raw node:
// the name property when present, the raw local id otherwise, and
// "Unknown" when both are blank.
func resolveDisplayName(node common.RawNode) string {
	if name := strings.TrimSpace(node.Properties["name"]); name != "" {
		return name
	}
	if id := strings.TrimSpace(node.LocalID); id != "" {
		return id
	}
	return "Unknown"
}

// normalizeType sanitizes a raw type into an uppercase [A-Z0-9_] label.
// Blank input becomes "Entity" before sanitization; input that loses
// every character to stripping falls back to "ENTITY".
func normalizeType(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		t = "Entity"
	}

	var b strings.Builder
	for _, r := range t {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	out := strings.ToUpper(b.String())
	if out == "" {
		return "ENTITY"
	}
	return out
}

// normalizeRelType sanitizes relationship types like normalizeType but
// falls back to the generic RELATES_TO instead of the node default.
func normalizeRelType(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	out := strings.ToUpper(b.String())
	if out == "" {
		return "RELATES_TO"
	}
	return out
}

// NormalizeRecord canonicalizes one chunk-local extraction record into
// a GraphDocument ready for storage. Node ids become their resolved
// display names; the name, title, label and caption properties are all
// set to the same value so every rendering origin reads the same text.
// Relationship endpoint ids are rewritten to follow their nodes, and
// relationships whose endpoints did not survive normalization are
// dropped.
func NormalizeRecord(record common.RawGraphRecord) common.GraphDocument {
	doc := common.GraphDocument{
		Nodes:         make([]common.NormalizedNode, 0, len(record.Nodes)),
		Relationships: make([]common.NormalizedRelationship, 0, len(record.Relationships)),
	}

	idMap := make(map[string]string, len(record.Nodes))
	for _, node := range record.Nodes {
		displayName := resolveDisplayName(node)

		props := make(map[string]string, len(node.Properties)+4)
		for k, v := range node.Properties {
			props[k] = v
		}
		props["name"] = displayName
		props["title"] = displayName
		props["label"] = displayName
		props["caption"] = displayName

		doc.Nodes = append(doc.Nodes, common.NormalizedNode{
			ID:         displayName,
			Type:       normalizeType(node.Type),
			Properties: props,
		})
		if node.LocalID != "" {
			idMap[node.LocalID] = displayName
		}
	}

	for _, rel := range record.Relationships {
		sourceID, ok := idMap[rel.SourceLocalID]
		if !ok {
			continue
		}
		targetID, ok := idMap[rel.TargetLocalID]
		if !ok {
			continue
		}

		props := make(map[string]string, len(rel.Properties))
		for k, v := range rel.Properties {
			props[k] = v
		}

		doc.Relationships = append(doc.Relationships, common.NormalizedRelationship{
			SourceID:   sourceID,
			TargetID:   targetID,
			Type:       normalizeRelType(rel.Type),
			Properties: props,
		})
	}

	return doc
}
