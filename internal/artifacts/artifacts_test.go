package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestWriteAndRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", OpportunitiesFile)

	in := []types.Opportunity{
		{
			SourceEmail: types.SourceEmail{MessageID: "m1"},
			JobTitle:    "Go Engineer",
			Company:     "Acme",
			Locations:   []string{"Berlin"},
		},
	}
	require.NoError(t, Write(path, in))

	out, err := Read[types.Opportunity](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWrite_EnvelopeMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), MessagesFile)
	require.NoError(t, Write(path, []types.EmailMessage{{MessageID: "m1"}, {MessageID: "m2"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count": 2`)
	assert.Contains(t, string(data), `"generated_at_utc"`)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read[types.EmailMessage](filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReadOptional_MissingFileIsEmpty(t *testing.T) {
	items, err := ReadOptional[types.MatchResult](filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReadOptional_EmptyPathIsEmpty(t *testing.T) {
	items, err := ReadOptional[types.EmailDraft]("")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRead_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read[types.Opportunity](path)
	assert.ErrorContains(t, err, "failed to parse artifact file")
}

func TestRead_ExtraFieldsPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), OpportunitiesFile)
	raw := `{
	  "generated_at_utc": "2025-03-10T09:00:00Z",
	  "count": 1,
	  "items": [{
	    "source_email": {"message_id": "m1"},
	    "job_title": "Engineer",
	    "company": "Acme",
	    "salary_band": "L5",
	    "extra": {"ats": "greenhouse"}
	  }]
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	items, err := Read[types.Opportunity](path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "greenhouse", items[0].Extra["ats"])
	// unknown inbound fields land in the side channel too
	assert.Equal(t, "L5", items[0].Extra["salary_band"])
}
