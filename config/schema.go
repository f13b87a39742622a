package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("config.schema.json", schemaJSON)
	})
	return compiledSchema, schemaErr
}

// checkSchema validates the merged YAML document, as written by the user,
// against the embedded JSON schema. Unknown keys are rejected.
func checkSchema(merged map[string]any) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	doc, err := toJSONValue(merged)
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := leafCause(ve)
			return &InvalidConfigError{Field: instancePath(leaf.InstanceLocation), Reason: leaf.Message}
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// toJSONValue converts a decoded YAML document into the value shape jsonschema expects.
func toJSONValue(merged map[string]any) (any, error) {
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, invalid("config", "not representable as JSON: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding config json: %w", err)
	}
	return doc, nil
}

func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// instancePath turns a JSON pointer like "/harvest/minimum_height" into "harvest.minimum_height".
func instancePath(ptr string) string {
	p := strings.Trim(ptr, "/")
	if p == "" {
		return "config"
	}
	return strings.ReplaceAll(p, "/", ".")
}
