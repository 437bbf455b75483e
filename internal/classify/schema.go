package classify

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// predictionDef is shared by every response schema.
const predictionDef = `"prediction": {
	"type": "object",
	"required": ["label", "score"],
	"properties": {
		"label": {"type": "string"},
		"score": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

// huggingFaceSchema accepts either one prediction per input or, as the
// Inference API returns for batched text classification, a ranked list of
// predictions per input.
const huggingFaceSchema = `{
	"type": "array",
	"items": {
		"anyOf": [
			{"$ref": "#/definitions/prediction"},
			{"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/prediction"}}
		]
	},
	"definitions": {` + predictionDef + `}
}`

// openAISchema is the JSON object the chat model is instructed to return.
const openAISchema = `{
	"type": "object",
	"required": ["predictions"],
	"properties": {
		"predictions": {"type": "array", "items": {"$ref": "#/definitions/prediction"}}
	},
	"definitions": {` + predictionDef + `}
}`

var (
	huggingFaceResponse = mustSchema(huggingFaceSchema)
	openAIResponse      = mustSchema(openAISchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("classify: invalid response schema: %v", err))
	}
	return schema
}

// validateShape checks data against schema and reports every violation.
func validateShape(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrMalformedResponse)
}
