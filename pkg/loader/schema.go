package loader

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// graphSchema describes the declarative wire format's shape: a root
// graph object carrying graphType/graphInitializationConfig and an
// optional ordered list of children, each of which is itself either a
// node description or a nested graph description.
const graphSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "graph": {
      "type": "object",
      "required": ["graphType", "graphInitializationConfig"],
      "properties": {
        "graphType": {
          "type": "string",
          "enum": ["base", "splitInferenceRunner", "autoregressiveInferenceRunner"]
        },
        "graphInitializationConfig": { "type": "object" },
        "children": {
          "type": "array",
          "items": { "$ref": "#/definitions/child" }
        }
      }
    },
    "node": {
      "type": "object",
      "required": ["nodeType", "nodeInitializationConfig"],
      "properties": {
        "nodeType": { "type": "string", "minLength": 1 },
        "nodeInitializationConfig": { "type": "object" }
      }
    },
    "child": {
      "anyOf": [
        { "$ref": "#/definitions/node" },
        { "$ref": "#/definitions/graph" }
      ]
    }
  },
  "allOf": [{ "$ref": "#/definitions/graph" }]
}`

// validateDocument checks raw against the graph schema, returning
// ErrSchemaInvalid wrapping every validation failure message when the
// document does not conform.
func validateDocument(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(graphSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("%w: %s", ErrSchemaInvalid, strings.Join(messages, "; "))
}
