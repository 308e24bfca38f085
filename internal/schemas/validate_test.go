package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["job_title", "source_email"],
	"properties": {
		"job_title": {"type": "string", "minLength": 1},
		"source_email": {
			"type": "object",
			"required": ["message_id"],
			"properties": {"message_id": {"type": "string"}}
		},
		"locations": {"type": "array", "items": {"type": "string"}}
	}
}`

func TestValidateJSONString(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := `{"job_title": "Engineer", "source_email": {"message_id": "m1"}}`
		assert.NoError(t, ValidateJSONString(testSchema, doc))
	})

	t.Run("missing required field", func(t *testing.T) {
		doc := `{"job_title": "Engineer"}`
		err := ValidateJSONString(testSchema, doc)
		require.Error(t, err)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.NotEmpty(t, ve.Errors)
		assert.Contains(t, err.Error(), "source_email")
	})

	t.Run("wrong type reports field path", func(t *testing.T) {
		doc := `{"job_title": "Engineer", "source_email": {"message_id": "m1"}, "locations": "Austin"}`
		err := ValidateJSONString(testSchema, doc)
		require.Error(t, err)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "locations", ve.Errors[0].Field)
	})

	t.Run("broken schema is a load error", func(t *testing.T) {
		err := ValidateJSONString(`{"type": 42}`, `{}`)
		require.Error(t, err)

		var le *SchemaLoadError
		assert.ErrorAs(t, err, &le)
	})
}

func TestValidateJSONFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o644))

	t.Run("valid file", func(t *testing.T) {
		docPath := filepath.Join(dir, "valid.json")
		require.NoError(t, os.WriteFile(docPath,
			[]byte(`{"job_title": "Engineer", "source_email": {"message_id": "m1"}}`), 0o644))
		assert.NoError(t, ValidateJSONFile(schemaPath, docPath))
	})

	t.Run("invalid file", func(t *testing.T) {
		docPath := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(docPath, []byte(`{}`), 0o644))

		err := ValidateJSONFile(schemaPath, docPath)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("missing schema", func(t *testing.T) {
		err := ValidateJSONFile(filepath.Join(dir, "nope.json"), schemaPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("missing document", func(t *testing.T) {
		err := ValidateJSONFile(schemaPath, filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
