package docstore

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// validateAgainstSchema checks a backend response body against an embedded
// JSON Schema before the payload is trusted. Sizes and verification statuses
// feed numeric limits downstream, so malformed responses are rejected at the
// boundary.
func validateAgainstSchema(schemaName string, body []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return fmt.Errorf("failed to load embedded schema %s: %w", schemaName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return fmt.Errorf("schema validation error for %s: %w", schemaName, err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(desc.String())
		}
		return fmt.Errorf("backend response does not match %s: %s", schemaName, sb.String())
	}
	return nil
}
