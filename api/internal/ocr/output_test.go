package ocr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      []Record
		malformed bool
	}{
		{"object", `{"帳票の種類": "1"}`, []Record{{"帳票の種類": "1"}}, false},
		{"fenced object", "```json\n{\"帳票の種類\": \"1\"}\n```", []Record{{"帳票の種類": "1"}}, false},
		{"bare fence", "```\n[{\"掛金\": 0}]\n```", []Record{{"掛金": json.Number("0")}}, false},
		{"array", `[{"a": "x"}, {"a": "y"}]`, []Record{{"a": "x"}, {"a": "y"}}, false},
		{"array skips non objects", `[{"a": 1}, 2, "s", null]`, []Record{{"a": json.Number("1")}}, false},
		{"empty array", `[]`, []Record{}, false},
		{"scalar", `"hello"`, []Record{}, false},
		{"empty", "   ", []Record{}, false},
		{"not json", "I could not read this document.", []Record{}, true},
		{"truncated", `[{"a": "x"`, []Record{}, true},
		{"trailing data", `{"a": 1} {"b": 2}`, []Record{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOutput(tt.text)
			assert.Equal(t, tt.want, got.Records)
			assert.Equal(t, tt.malformed, got.Malformed)
		})
	}
}

func TestParseOutput_FencedEqualsUnfenced(t *testing.T) {
	body := `[{"保険会社名": "A生命", "証明額": 12000}]`
	assert.Equal(t, ParseOutput(body), ParseOutput("```json\n"+body+"\n```"))
}

func TestParseOutput_KeepsNumbersExact(t *testing.T) {
	out := ParseOutput(`{"証明額": 12345678901234567890}`)
	require.Len(t, out.Records, 1)
	assert.Equal(t, json.Number("12345678901234567890"), out.Records[0]["証明額"])
}

func TestOutputFirst(t *testing.T) {
	assert.Nil(t, Output{}.First())
	assert.Equal(t, Record{"a": "b"}, Output{Records: []Record{{"a": "b"}, {"c": "d"}}}.First())
}
