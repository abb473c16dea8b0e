package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// configSchema validates filter config files before decoding. Unknown keys
// are rejected so a typoed field fails loudly instead of silently falling
// back to a default.
const configSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"allow_get": {"type": "boolean"},
		"allow_post": {"type": "boolean"},
		"exclude_static_extensions": {"type": "boolean"},
		"extensions": {
			"type": "array",
			"items": {"type": "string", "pattern": "^\\.[A-Za-z0-9]+$"}
		}
	}
}`

var printer = message.NewPrinter(language.English)

// LoadFile reads a filter config from a JSON file, validates it against the
// config schema, and merges it over DefaultConfig. Fields absent from the
// file keep their defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading filter config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Config{}, fmt.Errorf("filter config is not valid JSON: %w", err)
	}

	schema, err := compileConfigSchema()
	if err != nil {
		return Config{}, err
	}
	if err := schema.Validate(value); err != nil {
		return Config{}, fmt.Errorf("invalid filter config: %s", strings.Join(validationMessages(err), "; "))
	}

	// Decode over the defaults so absent fields keep their default values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding filter config: %w", err)
	}
	return cfg, nil
}

func compileConfigSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing config schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("filter-config.json", doc); err != nil {
		return nil, fmt.Errorf("adding config schema resource: %w", err)
	}
	compiled, err := compiler.Compile("filter-config.json")
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	return compiled, nil
}

// validationMessages flattens a validation error into human-readable
// "path: message" strings.
func validationMessages(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	var msgs []string
	collectMessages(validationErr, &msgs)
	if len(msgs) == 0 {
		msgs = []string{validationErr.Error()}
	}
	return msgs
}

// collectMessages recursively collects leaf errors (those without causes).
func collectMessages(err *jsonschema.ValidationError, out *[]string) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if len(err.InstanceLocation) > 0 {
			msg = "/" + strings.Join(err.InstanceLocation, "/") + ": " + msg
		}
		*out = append(*out, msg)
	}
	for _, cause := range err.Causes {
		collectMessages(cause, out)
	}
}
