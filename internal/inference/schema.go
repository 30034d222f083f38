package inference

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// generationResponseSchema describes the only payload shape the relay consumes:
// a non-empty array whose first element carries a string generated_text.
const generationResponseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "prefixItems": [
    {
      "type": "object",
      "required": ["generated_text"],
      "properties": {
        "generated_text": {"type": "string"}
      }
    }
  ]
}`

const generationResponseSchemaID = "inmemory://generation-response.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func responseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(generationResponseSchemaID, strings.NewReader(generationResponseSchema)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(generationResponseSchemaID)
	})
	return compiledSchema, compileErr
}

// FirstGeneratedText validates payload against the generation response schema
// and returns the generated text of its first element. Every other element and
// field is discarded.
func FirstGeneratedText(payload []byte) (string, error) {
	schema, err := responseSchema()
	if err != nil {
		return "", fmt.Errorf("compile response schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if err := schema.Validate(doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	first := doc.([]any)[0].(map[string]any)
	return first["generated_text"].(string), nil
}
