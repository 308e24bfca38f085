// Package schemas validates pipeline artifacts against JSON Schemas. The
// extraction stage uses it to reject malformed LLM output before it reaches
// downstream stages.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports which fields of a document failed validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError reports a schema that could not be loaded or parsed, as
// opposed to a document that failed validation.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSONString validates JSON content against a schema, both given as
// strings. Returns nil when valid, a *ValidationError when the document fails,
// or a *SchemaLoadError when the schema itself is broken.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)
	return validate(schemaLoader, documentLoader, "(string schema)")
}

// ValidateJSONFile validates a JSON file on disk against a schema file on
// disk. Used by the CLI to check artifact files before a stage consumes them.
func ValidateJSONFile(schemaPath, jsonPath string) error {
	schemaAbs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("resolving schema path: %w", err)
	}
	jsonAbs, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}

	if _, err := os.Stat(schemaAbs); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbs)
	}
	if _, err := os.Stat(jsonAbs); os.IsNotExist(err) {
		return fmt.Errorf("document file not found: %s", jsonAbs)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaAbs)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + jsonAbs)
	return validate(schemaLoader, documentLoader, schemaAbs)
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader, schemaPath string) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
