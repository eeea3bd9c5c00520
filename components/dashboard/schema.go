package dashboard

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// dateRangeKey is the envelope key of the date range sales payload.
const dateRangeKey = "total_sales_by_month"

var dateRangeSchemaDoc = map[string]any{
	"type":     "object",
	"required": []string{dateRangeKey},
	"properties": map[string]any{
		dateRangeKey: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"year", "month", "total_sales"},
				"properties": map[string]any{
					"year":        map[string]any{"type": "integer", "minimum": 1000, "maximum": 9999},
					"month":       map[string]any{"type": "integer", "minimum": 1, "maximum": 12},
					"total_sales": map[string]any{"type": []string{"number", "string"}},
				},
			},
		},
	},
}

// PayloadValidator checks raw remote payloads against a compiled JSON schema.
type PayloadValidator struct {
	name string
	doc  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewPayloadValidator builds a validator for the given schema document.
func NewPayloadValidator(name string, doc map[string]any) *PayloadValidator {
	return &PayloadValidator{name: name, doc: doc}
}

var dateRangeValidator = NewPayloadValidator("date_range", dateRangeSchemaDoc)

// Validate decodes raw and validates it, returning the decoded document.
func (v *PayloadValidator) Validate(raw []byte) (any, error) {
	schema, err := v.schema()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: %s payload is empty", ErrMalformedResponse, v.name)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s payload: %v", ErrMalformedResponse, v.name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s payload failed validation: %v", ErrMalformedResponse, v.name, err)
	}
	return doc, nil
}

func (v *PayloadValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(v.doc)
		if err != nil {
			v.err = fmt.Errorf("dashboard: marshal schema %s: %w", v.name, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		name := v.name + ".json"
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("dashboard: load schema %s: %w", v.name, err)
			return
		}
		v.compiled, v.err = compiler.Compile(name)
		if v.err != nil {
			v.err = fmt.Errorf("dashboard: compile schema %s: %w", v.name, v.err)
		}
	})
	return v.compiled, v.err
}
