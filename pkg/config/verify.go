package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	return r.Reflect(&Config{})
}

// VerifyAgainstSchema checks enum and minimum constraints declared in the config schema
func VerifyAgainstSchema(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return verifyObject(GenerateSchema(), doc, "")
}

func verifyObject(schema *jsonschema.Schema, doc map[string]any, path string) error {
	if schema == nil || schema.Properties == nil {
		return nil
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		val, ok := doc[name]
		if !ok {
			continue
		}
		field := strings.TrimPrefix(path+"."+name, ".")
		if err := verifyValue(prop, val, field); err != nil {
			return err
		}
	}
	return nil
}

func verifyValue(prop *jsonschema.Schema, val any, field string) error {
	if prop == nil {
		return nil
	}
	switch v := val.(type) {
	case map[string]any:
		return verifyObject(prop, v, field)
	case []any:
		for i, item := range v {
			if err := verifyValue(prop.Items, item, fmt.Sprintf("%s[%d]", field, i)); err != nil {
				return err
			}
		}
	case string:
		if len(prop.Enum) > 0 && !inEnum(prop.Enum, v) {
			return fmt.Errorf("%s: %q is not one of %v", field, v, prop.Enum)
		}
	case float64:
		if prop.Minimum == "" {
			return nil
		}
		minimum, err := prop.Minimum.Float64()
		if err != nil {
			return fmt.Errorf("%s: bad minimum %q in schema: %w", field, prop.Minimum, err)
		}
		if v < minimum {
			return fmt.Errorf("%s: %v is less than minimum %v", field, v, minimum)
		}
	}
	return nil
}

func inEnum(enum []any, v string) bool {
	for _, e := range enum {
		if s, ok := e.(string); ok && s == v {
			return true
		}
	}
	return false
}
