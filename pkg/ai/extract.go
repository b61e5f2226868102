package ai

import (
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/common"
)

// DefaultEntityTypes are suggested to the extraction model when the
// caller configures none.
var DefaultEntityTypes = []string{
	"ORGANIZATION", "PERSON", "LOCATION", "CONCEPT", "CREATIVE_WORK", "DATE", "PRODUCT", "EVENT",
}

// ExtractEntity is one entity in the extraction model's structured
// response. ID doubles as the entity's display name and is only unique
// within one chunk's response.
type ExtractEntity struct {
	ID          string `json:"id" jsonschema_description:"Short, human-readable name identifying the entity"`
	Type        string `json:"type" jsonschema_description:"Category of the entity, one of the provided entity types"`
	Description string `json:"description" jsonschema_description:"One-sentence description of the entity based on the source text"`
}

// ExtractRelationship is one directed relationship in the extraction
// model's structured response, referencing entity ids of the same
// response.
type ExtractRelationship struct {
	SourceID    string `json:"source_id" jsonschema_description:"ID of the source entity, as listed in entities"`
	TargetID    string `json:"target_id" jsonschema_description:"ID of the target entity, as listed in entities"`
	Type        string `json:"type" jsonschema_description:"Short uppercase verb phrase naming the relationship"`
	Description string `json:"description" jsonschema_description:"Why the source and target entity are related"`
}

// ExtractPayload is the structured response schema of one extraction
// call.
type ExtractPayload struct {
	Entities      []ExtractEntity       `json:"entities" jsonschema_description:"Entities identified in the text"`
	Relationships []ExtractRelationship `json:"relationships" jsonschema_description:"Relationships between the identified entities"`
}

// ToRawGraphRecord converts an extraction payload into the chunk-local
// raw graph record the pipeline consumes. Relationships referencing
// unknown entity ids are dropped.
func (p ExtractPayload) ToRawGraphRecord() common.RawGraphRecord {
	record := common.RawGraphRecord{
		Nodes:         make([]common.RawNode, 0, len(p.Entities)),
		Relationships: make([]common.RawRelationship, 0, len(p.Relationships)),
	}

	known := make(map[string]struct{}, len(p.Entities))
	for _, entity := range p.Entities {
		if strings.TrimSpace(entity.ID) == "" {
			continue
		}
		props := map[string]string{}
		if entity.Description != "" {
			props["description"] = entity.Description
		}
		record.Nodes = append(record.Nodes, common.RawNode{
			LocalID:    entity.ID,
			Type:       entity.Type,
			Properties: props,
		})
		known[entity.ID] = struct{}{}
	}

	for _, rel := range p.Relationships {
		if _, ok := known[rel.SourceID]; !ok {
			continue
		}
		if _, ok := known[rel.TargetID]; !ok {
			continue
		}
		props := map[string]string{}
		if rel.Description != "" {
			props["description"] = rel.Description
		}
		record.Relationships = append(record.Relationships, common.RawRelationship{
			SourceLocalID: rel.SourceID,
			TargetLocalID: rel.TargetID,
			Type:          rel.Type,
			Properties:    props,
		})
	}

	return record
}

// BuildExtractPrompt renders the extraction system prompt for the
// given entity types.
func BuildExtractPrompt(entityTypes []string) string {
	if len(entityTypes) == 0 {
		entityTypes = DefaultEntityTypes
	}
	types := strings.Join(entityTypes, ",")
	return fmt.Sprintf(ExtractPrompt, types, types)
}
