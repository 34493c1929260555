// internal/server/validation.go
package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resolveRequestSchema enforces the coordinate invariant before the body
// reaches the resolver, so malformed input fails with a field-level message
// instead of a bare INVALID_INPUT.
const resolveRequestSchema = `{
	"type": "object",
	"properties": {
		"latitude":  {"type": "number", "minimum": -90,  "maximum": 90},
		"longitude": {"type": "number", "minimum": -180, "maximum": 180}
	},
	"required": ["latitude", "longitude"],
	"additionalProperties": false
}`

const bookingRequestSchema = `{
	"type": "object",
	"properties": {
		"latitude":      {"type": "number", "minimum": -90,  "maximum": 90},
		"longitude":     {"type": "number", "minimum": -180, "maximum": 180},
		"customerEmail": {"type": "string", "format": "email"},
		"customerPhone": {"type": "string", "minLength": 5},
		"deviceType":    {"type": "string", "minLength": 1},
		"issue":         {"type": "string"}
	},
	"required": ["deviceType"],
	"additionalProperties": false
}`

var (
	resolveSchema = gojsonschema.NewStringLoader(resolveRequestSchema)
	bookingSchema = gojsonschema.NewStringLoader(bookingRequestSchema)
)

// validateJSON checks a raw body against a schema and returns a joined
// field-error description on failure.
func validateJSON(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(details, "; "))
}
