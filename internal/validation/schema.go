// Package validation checks .brandcheck.yaml files against the embedded
// JSON schema.
package validation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// configSchema is the compiled JSON Schema for .brandcheck.yaml files.
var configSchema *jsonschema.Schema

func init() {
	configSchema = mustCompileSchema(configSchemaJSON, "config.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateConfigFile validates the config file at path.
func ValidateConfigFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ValidateConfigBytes(data), nil
}

// ValidateConfigBytes validates raw YAML bytes against the config schema.
// An empty document is valid.
func ValidateConfigBytes(data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if yamlDoc == nil {
		return nil
	}

	jsonCompatible, err := convertToJSONCompatible(yamlDoc)
	if err != nil {
		return []string{err.Error()}
	}

	return validateAgainstSchema(configSchema, jsonCompatible)
}

// ErrorsToError joins validation messages into one error, or nil.
func ErrorsToError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New("invalid configuration:\n  " + strings.Join(errs, "\n  "))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	sort.Strings(errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible rewrites YAML-decoded values into JSON-compatible
// types. Non-string map keys are rejected.
func convertToJSONCompatible(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			c, err := convertToJSONCompatible(v2)
			if err != nil {
				return nil, err
			}
			result[k] = c
		}
		return result, nil
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", k)
			}
			c, err := convertToJSONCompatible(v2)
			if err != nil {
				return nil, err
			}
			result[ks] = c
		}
		return result, nil
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			c, err := convertToJSONCompatible(v2)
			if err != nil {
				return nil, err
			}
			result[i] = c
		}
		return result, nil
	default:
		return val, nil
	}
}
