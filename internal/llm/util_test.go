package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "generic fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "fence with language identifier",
			input: "```javascript\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n{\"a\": 1}\n```\n  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestConfigGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))

	cfg.Models[TierStandard] = "standard-model"
	assert.Equal(t, "standard-model", cfg.GetModel(TierAdvanced))

	assert.Empty(t, (&Config{}).GetModel(TierLite))
}

func TestConfigWithModel_DoesNotMutateOriginal(t *testing.T) {
	base := DefaultConfig()
	derived := base.WithModel(TierLite, "custom")

	assert.Equal(t, "custom", derived.GetModel(TierLite))
	assert.NotEqual(t, "custom", base.GetModel(TierLite))
}
