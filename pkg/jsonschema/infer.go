// Package jsonschema infers JSON Schemas (Draft 2020-12) from sample JSON
// values. Its main consumer is GraphQL variables inspection, where the
// variables objects of several captured calls to the same operation are
// merged into one schema.
package jsonschema

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/invopop/jsonschema"
)

// InferredSchema contains a JSON Schema inferred from sample data along with metadata.
type InferredSchema struct {
	Schema      *jsonschema.Schema `json:"schema"`       // JSON Schema (Draft 2020-12)
	SampleCount int                `json:"sample_count"` // Number of samples used
	AllMatch    bool               `json:"all_match"`    // True if all samples had identical schema
}

// Infer generates a JSON Schema from one or more JSON byte samples, merging
// them into one schema. Properties present (and non-null) in every sample are
// marked required. Unparseable samples are skipped; returns nil if no sample
// parsed.
func Infer(samples ...[]byte) (*InferredSchema, error) {
	values := make([]any, 0, len(samples))
	for _, data := range samples {
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			continue
		}
		values = append(values, parsed)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return InferFromValues(values...), nil
}

// InferFromValues generates a JSON Schema from already-parsed JSON values.
func InferFromValues(values ...any) *InferredSchema {
	schemas := make([]*jsonschema.Schema, 0, len(values))
	for _, v := range values {
		schemas = append(schemas, inferFromValue(v))
	}

	allMatch := true
	if len(schemas) > 1 {
		first, _ := json.Marshal(schemas[0])
		for _, s := range schemas[1:] {
			other, _ := json.Marshal(s)
			if string(first) != string(other) {
				allMatch = false
				break
			}
		}
	}

	merged := mergeSchemas(schemas)
	if merged.Type == "object" {
		markRequired(merged, values)
	}

	return &InferredSchema{
		Schema:      merged,
		SampleCount: len(schemas),
		AllMatch:    allMatch,
	}
}

func inferFromValue(v any) *jsonschema.Schema {
	if v == nil {
		return &jsonschema.Schema{Type: "null"}
	}

	switch val := v.(type) {
	case bool:
		return &jsonschema.Schema{Type: "boolean"}

	case float64:
		// encoding/json decodes all numbers as float64
		if math.Trunc(val) == val && !math.IsInf(val, 0) && !math.IsNaN(val) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case string:
		return &jsonschema.Schema{Type: "string"}

	case []any:
		schema := &jsonschema.Schema{Type: "array"}
		if len(val) == 0 {
			return schema
		}
		itemSchemas := make([]*jsonschema.Schema, 0, len(val))
		for _, item := range val {
			itemSchemas = append(itemSchemas, inferFromValue(item))
		}
		schema.Items = mergeSchemas(itemSchemas)
		return schema

	case map[string]any:
		schema := &jsonschema.Schema{
			Type:       "object",
			Properties: jsonschema.NewProperties(),
		}
		for _, k := range sortedKeys(val) {
			schema.Properties.Set(k, inferFromValue(val[k]))
		}
		return schema

	default:
		return &jsonschema.Schema{}
	}
}

func mergeSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	types := make(map[string]bool)
	var objectSchemas, arraySchemas []*jsonschema.Schema
	for _, s := range schemas {
		if s.Type == "" {
			continue
		}
		types[s.Type] = true
		switch s.Type {
		case "object":
			objectSchemas = append(objectSchemas, s)
		case "array":
			arraySchemas = append(arraySchemas, s)
		}
	}

	if len(types) == 1 {
		switch {
		case len(objectSchemas) > 0:
			return mergeObjectSchemas(objectSchemas)
		case len(arraySchemas) > 0:
			return mergeArraySchemas(arraySchemas)
		default:
			return schemas[0]
		}
	}

	// Mixed types: anyOf over the merged object/array schemas and each
	// primitive type, in sorted type order for stable output.
	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	var anyOf []*jsonschema.Schema
	for _, t := range typeList {
		switch t {
		case "object":
			anyOf = append(anyOf, mergeObjectSchemas(objectSchemas))
		case "array":
			anyOf = append(anyOf, mergeArraySchemas(arraySchemas))
		default:
			anyOf = append(anyOf, &jsonschema.Schema{Type: t})
		}
	}

	if len(anyOf) == 1 {
		return anyOf[0]
	}
	return &jsonschema.Schema{AnyOf: anyOf}
}

func mergeObjectSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}

	allProperties := make(map[string][]*jsonschema.Schema)
	for _, s := range schemas {
		if s.Properties == nil {
			continue
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			allProperties[pair.Key] = append(allProperties[pair.Key], pair.Value)
		}
	}

	merged := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, k := range sortedKeys(allProperties) {
		merged.Properties.Set(k, mergeSchemas(allProperties[k]))
	}
	return merged
}

func mergeArraySchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}

	var itemSchemas []*jsonschema.Schema
	for _, s := range schemas {
		if s.Items != nil {
			itemSchemas = append(itemSchemas, s.Items)
		}
	}
	return &jsonschema.Schema{
		Type:  "array",
		Items: mergeSchemas(itemSchemas),
	}
}

// markRequired marks properties present and non-null in every sample as
// required, recursing into nested objects and arrays of objects.
func markRequired(schema *jsonschema.Schema, samples []any) {
	if schema.Type != "object" || schema.Properties == nil {
		return
	}

	counts := make(map[string]int)
	nullable := make(map[string]bool)
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		counts[pair.Key] = 0
	}

	for _, sample := range samples {
		obj, ok := sample.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range obj {
			if _, tracked := counts[key]; tracked {
				counts[key]++
				if value == nil {
					nullable[key] = true
				}
			}
		}
	}

	var required []string
	for key, count := range counts {
		if count == len(samples) && !nullable[key] {
			required = append(required, key)
		}
	}
	sort.Strings(required)
	if len(required) > 0 {
		schema.Required = required
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		switch {
		case prop.Type == "object":
			var nested []any
			for _, sample := range samples {
				if obj, ok := sample.(map[string]any); ok {
					if v, exists := obj[pair.Key]; exists && v != nil {
						nested = append(nested, v)
					}
				}
			}
			if len(nested) > 0 {
				markRequired(prop, nested)
			}

		case prop.Type == "array" && prop.Items != nil && prop.Items.Type == "object":
			var nested []any
			for _, sample := range samples {
				obj, ok := sample.(map[string]any)
				if !ok {
					continue
				}
				if arr, ok := obj[pair.Key].([]any); ok {
					for _, item := range arr {
						if item != nil {
							nested = append(nested, item)
						}
					}
				}
			}
			if len(nested) > 0 {
				markRequired(prop.Items, nested)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
