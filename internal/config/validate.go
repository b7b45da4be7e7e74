package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/StinkyLord/sbom-license-exporter/internal/config/schema"
)

const schemaName = "config.schema.json"

// ValidateJSON checks data against the embedded configuration schema.
func ValidateJSON(data []byte) error {
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource(schemaName, bytes.NewReader(schema.ConfigSchema)); err != nil {
		return fmt.Errorf("loading schema %q: %w", schemaName, err)
	}
	sch, err := comp.Compile(schemaName)
	if err != nil {
		return fmt.Errorf("compiling schema %q: %w", schemaName, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON for %q: %w", schemaName, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation against %q failed: %w", schemaName, err)
	}
	return nil
}
