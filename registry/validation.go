package registry

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateConfig validates config against meta's ConfigSchema. A type
// with no schema accepts any config unvalidated.
func ValidateConfig(meta Metadata, config map[string]interface{}) error {
	if len(meta.ConfigSchema) == 0 {
		return nil
	}

	schemaJSON, err := json.Marshal(meta.ConfigSchema)
	if err != nil {
		return fmt.Errorf("registry: marshal schema for %q: %w", meta.Type, err)
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("registry: marshal config for %q: %w", meta.Type, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(configJSON),
	)
	if err != nil {
		return fmt.Errorf("registry: validate %q: %w", meta.Type, err)
	}
	if !result.Valid() {
		var msg string
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return fmt.Errorf("registry: config for %q failed validation: %s", meta.Type, msg)
	}
	return nil
}
