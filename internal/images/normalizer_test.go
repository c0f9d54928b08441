package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_NonStringInputs(t *testing.T) {
	assert.Equal(t, []string{}, Normalize(nil))
	assert.Equal(t, []string{}, Normalize(42))
	assert.Equal(t, []string{}, Normalize([]string{}))
	assert.Equal(t, []string{"a", "b"}, Normalize([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, Normalize([]interface{}{"a", "b"}))
}

func TestNormalize_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "empty array literal",
			input:    "{}",
			expected: []string{},
		},
		{
			name:     "plain array literal",
			input:    "{a.jpg,b.jpg,c.jpg}",
			expected: []string{"a.jpg", "b.jpg", "c.jpg"},
		},
		{
			name:     "quoted field with embedded comma",
			input:    `{"a,b",c}`,
			expected: []string{"a,b", "c"},
		},
		{
			name:     "mixed quoted and unquoted fields",
			input:    `{plain.jpg," with space.jpg ","escaped""quote.jpg"}`,
			expected: []string{"plain.jpg", " with space.jpg ", `escaped"quote.jpg`},
		},
		{
			name:     "two data URIs joined by comma",
			input:    "data:image/png;base64,AAA,data:image/png;base64,BBB",
			expected: []string{"data:image/png;base64,AAA", "data:image/png;base64,BBB"},
		},
		{
			name:     "single data URI with embedded comma stays whole",
			input:    "data:image/png;base64,AAAA==",
			expected: []string{"data:image/png;base64,AAAA=="},
		},
		{
			name:     "plain comma separated list",
			input:    "a, b, c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "single bare value",
			input:    " https://cdn.example.com/1.jpg ",
			expected: []string{"https://cdn.example.com/1.jpg"},
		},
		{
			name:     "three data URIs",
			input:    "data:image/jpeg;base64,aa/bb,data:image/png;base64,cc==,data:image/webp;base64,dd",
			expected: []string{"data:image/jpeg;base64,aa/bb", "data:image/png;base64,cc==", "data:image/webp;base64,dd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []interface{}{
		nil,
		"",
		"{}",
		`{"a,b",c}`,
		"a, b, c",
		"data:image/png;base64,AAA,data:image/png;base64,BBB",
		"single.jpg",
		[]string{"x.jpg", "y.jpg"},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}
