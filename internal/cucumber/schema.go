package cucumber

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const reportSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {"$ref": "#/definitions/feature"},
	"definitions": {
		"tag": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string"}
			}
		},
		"feature": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"uri": {"type": "string"},
				"id": {"type": "string"},
				"name": {"type": "string"},
				"description": {"type": "string"},
				"tags": {"type": "array", "items": {"$ref": "#/definitions/tag"}},
				"elements": {"type": "array", "items": {"$ref": "#/definitions/element"}}
			}
		},
		"element": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"id": {"type": "string"},
				"name": {"type": "string"},
				"type": {"type": "string"},
				"tags": {"type": "array", "items": {"$ref": "#/definitions/tag"}},
				"steps": {"type": "array", "items": {"$ref": "#/definitions/step"}}
			}
		},
		"step": {
			"type": "object",
			"required": ["name", "result"],
			"properties": {
				"keyword": {"type": "string"},
				"name": {"type": "string"},
				"result": {
					"type": "object",
					"required": ["status"],
					"properties": {
						"status": {
							"type": "string",
							"enum": ["passed", "failed", "skipped", "undefined", "pending", "ambiguous"]
						},
						"duration": {"type": "integer", "minimum": 0},
						"error_message": {"type": "string"}
					}
				}
			}
		}
	}
}`

// validate checks a cleaned report against the cucumber JSON shape godog
// emits.
func validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(reportSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("gojsonschema.Validate: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(msgs, "; "))
	}

	return nil
}
