package certificate

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"deduction-ocr/api/internal/ocr"
)

// ClassificationSchema is the schema name for the classification answer.
const ClassificationSchema = "certificate_type"

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks model answers against the embedded per-prompt schemas.
// The answers are loosely typed; a violation is something to log, not a
// reason to fail the page.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	names := []string{
		ClassificationSchema,
		KindLife.PromptName(),
		KindEarthquake.PromptName(),
		KindSocial.PromptName(),
		KindSmallMutualAid.PromptName(),
	}
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		b, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("read %s schema: %w", name, err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(name+".json", bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", name, err)
		}
		schema, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks records against the schema called name. Unknown names pass.
func (v *Validator) Validate(name string, records []ocr.Record) error {
	schema, ok := v.schemas[name]
	if !ok {
		return nil
	}
	if records == nil {
		records = []ocr.Record{}
	}
	// round-trip so the validator sees plain decoded JSON types
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s records: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decode %s records: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%s output does not match schema: %w", name, err)
	}
	return nil
}
