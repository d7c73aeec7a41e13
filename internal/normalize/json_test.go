package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"direct", `{"a":1}`, `{"a":1}`},
		{"direct with whitespace", "\n  {\"a\":1}  \n", `{"a":1}`},
		{"json fence", "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy!", `{"a":1}`},
		{"generic fence", "```\n{\"a\":2}\n```", `{"a":2}`},
		{"unterminated fence", "```json\n{\"a\":3}", `{"a":3}`},
		{"byte order mark", "\ufeff{\"a\":4}", `{"a":4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	inputs := []string{
		"",
		"I could not find a recipe, sorry.",
		"```json\nnot json at all\n```",
		"```\n{broken\n```",
	}

	for _, in := range inputs {
		_, err := ExtractJSON(in)
		assert.ErrorIs(t, err, ErrNoJSON, "input %q", in)
	}
}

func TestExtractJSONPrefersJSONFence(t *testing.T) {
	in := "```text\nignore me\n```\n```json\n{\"ok\":true}\n```"
	got, err := ExtractJSON(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}

func TestDecodeObjectRejectsNonObjects(t *testing.T) {
	_, err := decodeObject(`["a","b"]`)
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = decodeObject(`null`)
	assert.ErrorIs(t, err, ErrNoJSON)
}
