package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaJSON describes only the envelope's outer shape — it deliberately
// does not attempt to validate every IR node recursively; that is the
// emitter's job once the shape is already known to be a well-formed
// envelope.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "t": { "type": "object" },
    "r": { "type": "integer", "minimum": 0 },
    "i": { "type": "boolean" },
    "f": { "type": "integer", "minimum": 0 },
    "m": { "type": "array", "items": { "type": "integer", "minimum": 0 } }
  },
  "required": ["t", "r", "i", "f", "m"],
  "additionalProperties": false
}`

var (
	schemaOnce    sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr     error
)

func validator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("envelope.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("envelope: schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("envelope.json")
	})
	return compiledSchema, schemaErr
}

// Validate checks raw against the envelope's outer JSON shape without
// attempting to compile it. CompileJSON and FromJSON call this first so a
// malformed document is rejected cleanly instead of panicking deep inside
// tree reconstruction.
func Validate(raw []byte) error {
	sch, err := validator()
	if err != nil {
		return fmt.Errorf("envelope: schema compile: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("envelope: invalid JSON: %w", err)
	}

	if err := sch.Validate(decoded); err != nil {
		return fmt.Errorf("envelope: shape validation: %w", err)
	}
	return nil
}
