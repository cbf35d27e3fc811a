package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/ruletree/pkg/rules"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "rules.json", want: FormatJSON},
		{path: "dir/rules.YAML", want: FormatYAML},
		{path: "rules.yml", want: FormatYAML},
		{path: "rules.toml", wantErr: true},
		{path: "rules", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnsupportedFormat)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseDocument_JSON(t *testing.T) {
	validRuleJSON := `{
        "type": "AND",
        "name": "eligibility",
        "rules": [
            true,
            {"name": "adult", "expr": "facts.age >= 18"},
            {"type": "or", "rules": [false, {"evaluate": true}]}
        ]
    }`

	doc, err := ParseDocument([]byte(validRuleJSON), FormatJSON)
	require.NoError(t, err, "Unexpected error")

	obj, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AND", obj["type"])
	assert.Len(t, obj["rules"], 3)
}

func TestParseDocument_YAML(t *testing.T) {
	validRuleYAML := `
type: AND
name: eligibility
meta:
  owner: risk
rules:
  - true
  - name: adult
    expr: facts.age >= 18
  - type: exactly_one
    rules:
      - false
      - evaluate: true
`

	doc, err := ParseDocument([]byte(validRuleYAML), FormatYAML)
	require.NoError(t, err, "Unexpected error")

	obj, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"owner": "risk"}, obj["meta"])

	children, ok := obj["rules"].([]any)
	require.True(t, ok)
	require.Len(t, children, 3)
	assert.Equal(t, true, children[0])

	nested, ok := children[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "exactly_one", nested["type"])
}

func TestParseDocument_InvalidInput(t *testing.T) {
	_, err := ParseDocument([]byte(`{"type": "AND", "rules": [`), FormatJSON)
	assert.Error(t, err, "Expected an error, got nil")

	_, err = ParseDocument([]byte("type: [AND\n"), FormatYAML)
	assert.Error(t, err, "Expected an error, got nil")

	_, err = ParseDocument([]byte(`true`), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFacts(t *testing.T) {
	facts, err := ParseFacts([]byte(`{"age": 30, "country": "NZ"}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"age": float64(30), "country": "NZ"}, facts)

	facts, err = ParseFacts([]byte("country: NZ\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "NZ", facts["country"])

	facts, err = ParseFacts([]byte(`null`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, facts)

	_, err = ParseFacts([]byte(`[1, 2]`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidFacts)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantErr  error
		contains string
	}{
		{
			name:     "valid nested document",
			document: `{"type": "AND", "rules": [true, {"expr": "true"}, {"type": "NOR", "rules": []}, {"evaluate": false}]}`,
		},
		{
			name:     "bare boolean",
			document: `false`,
		},
		{
			name:     "unknown type",
			document: `{"type": "BANANA", "rules": []}`,
			wantErr:  rules.ErrInvalidRuleType,
			contains: "BANANA",
		},
		{
			name:     "unknown nested type",
			document: `{"type": "AND", "rules": [true, {"type": "OR", "rules": [{"type": "SOMETIMES"}]}]}`,
			wantErr:  rules.ErrInvalidRuleType,
			contains: "rule $.rules[1].rules[0]",
		},
		{
			name:     "string leaf",
			document: `{"type": "AND", "rules": ["yes"]}`,
			wantErr:  rules.ErrInvalidRuleType,
		},
		{
			name:     "number leaf",
			document: `{"type": "AND", "rules": [1]}`,
			wantErr:  rules.ErrInvalidRuleType,
		},
		{
			name:     "missing rules",
			document: `{"type": "XOR"}`,
			wantErr:  rules.ErrMissingRulesArray,
		},
		{
			name:     "rules not a list",
			document: `{"type": "XOR", "rules": {"a": true}}`,
			wantErr:  rules.ErrMissingRulesArray,
		},
		{
			name:     "meta not an object",
			document: `{"type": "AND", "rules": [], "meta": ["a"]}`,
			wantErr:  rules.ErrInvalidMeta,
		},
		{
			name:     "options not an object",
			document: `{"evaluate": true, "options": 3}`,
			wantErr:  rules.ErrInvalidOptions,
		},
		{
			name:     "leaf without evaluate",
			document: `{"type": "AND", "rules": [{"name": "nothing"}]}`,
			wantErr:  rules.ErrInvalidTerminalEvaluate,
			contains: "rule $.rules[0]",
		},
		{
			name:     "evaluate is a string",
			document: `{"evaluate": "true"}`,
			wantErr:  rules.ErrInvalidTerminalEvaluate,
		},
		{
			name:     "empty expr",
			document: `{"expr": ""}`,
			wantErr:  ErrInvalidExpression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.document), FormatJSON)
			require.NoError(t, err)

			err = ValidateDocument(doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}
