package payload

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaError reports a payload that failed JSON Schema validation.
type SchemaError struct {
	Cause error
}

func (e *SchemaError) Error() string {
	return "payload schema validation failed: " + e.Cause.Error()
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// CheckSchema validates a decoded body against a JSON Schema document
// (draft 2020-12). An empty schema passes everything. A schema that
// does not compile is reported as a plain error; an instance violation
// comes back as a *SchemaError.
func CheckSchema(body any, schema []byte) error {
	if len(schema) == 0 {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("schema.json", strings.NewReader(string(schema))); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if err := compiled.Validate(body); err != nil {
		return &SchemaError{Cause: err}
	}
	return nil
}
