package casegen_test

import (
	"testing"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "fenced json block",
			text:   "Here you go:\n```json\n{\"title\": \"x\"}\n```\nEnjoy!",
			want:   `{"title": "x"}`,
			wantOK: true,
		},
		{
			name:   "fenced block without language",
			text:   "```\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "uppercase language tag",
			text:   "```JSON {\"a\": 1}```",
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "bare object with title and suspects",
			text:   `Sure! {"title": "t", "suspects": []} Hope this helps.`,
			want:   `{"title": "t", "suspects": []}`,
			wantOK: true,
		},
		{
			name:   "bare object missing suspects",
			text:   `{"title": "t"}`,
			want:   "",
			wantOK: false,
		},
		{
			name:   "no braces",
			text:   "I cannot help with that.",
			want:   "",
			wantOK: false,
		},
		{
			name:   "closing brace before opening brace",
			text:   "} title suspects {",
			want:   "",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := casegen.ExtractJSON(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c map[string]any)
		wantErr bool
	}{
		{name: "valid", mutate: func(_ map[string]any) {}, wantErr: false},
		{name: "missing title", mutate: func(c map[string]any) { delete(c, "title") }, wantErr: true},
		{name: "zero title", mutate: func(c map[string]any) { c["title"] = 0 }, wantErr: true},
		{name: "numeric title", mutate: func(c map[string]any) { c["title"] = 42 }, wantErr: false},
		{name: "empty short description", mutate: func(c map[string]any) { c["shortDescription"] = "" }, wantErr: true},
		{name: "null victim", mutate: func(c map[string]any) { c["victim"] = nil }, wantErr: true},
		{name: "scalar victim", mutate: func(c map[string]any) { c["victim"] = "Quinn" }, wantErr: false},
		{
			name:    "five suspects",
			mutate:  func(c map[string]any) { c["suspects"] = c["suspects"].([]any)[:5] },
			wantErr: true,
		},
		{
			name: "seven suspects",
			mutate: func(c map[string]any) {
				c["suspects"] = append(c["suspects"].([]any), map[string]any{"name": "Gus Ortega"})
			},
			wantErr: true,
		},
		{name: "nine clues", mutate: func(c map[string]any) { c["clues"] = c["clues"].([]any)[:9] }, wantErr: true},
		{
			name:    "missing culprit",
			mutate:  func(c map[string]any) { c["solution"] = map[string]any{"motive": "greed"} },
			wantErr: true,
		},
		{
			name: "culprit is not a suspect",
			mutate: func(c map[string]any) {
				c["solution"].(map[string]any)["culprit"] = "Nobody"
			},
			wantErr: true,
		},
		{
			name: "culprit matches ignoring case and whitespace",
			mutate: func(c map[string]any) {
				c["solution"].(map[string]any)["culprit"] = "  dana WHITLOCK "
			},
			wantErr: false,
		},
		{
			name:    "duplicate culprit name",
			mutate:  func(c map[string]any) { suspectAt(c, 0)["name"] = "dana whitlock" },
			wantErr: true,
		},
		{
			name:    "banned suspect name",
			mutate:  func(c map[string]any) { suspectAt(c, 0)["name"] = "Marina Chen" },
			wantErr: true,
		},
		{
			name:    "banned suspect name in other case",
			mutate:  func(c map[string]any) { suspectAt(c, 1)["name"] = "JAMES PARK" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := caseFixture()
			tt.mutate(c)
			d, err := casegen.ParseDraft(mustJSON(t, c))
			require.NoError(t, err)

			err = casegen.Validate(d)
			if tt.wantErr {
				require.ErrorIs(t, err, casegen.ErrIncoherent)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseDraft(t *testing.T) {
	_, err := casegen.ParseDraft("{not json")
	require.ErrorIs(t, err, casegen.ErrIncoherent)

	_, err = casegen.ParseDraft("null")
	require.ErrorIs(t, err, casegen.ErrIncoherent)

	_, err = casegen.ParseDraft(`["title", "suspects"]`)
	require.ErrorIs(t, err, casegen.ErrIncoherent)
}
