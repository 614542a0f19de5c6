package amharic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsEthiopicPunctuation(t *testing.T) {
	got := Normalize("ሰላም። ዋጋ፡ 500 ብር፣ አድራሻ ቦሌ")
	assert.Equal(t, "ሰላም ዋጋ 500 ብር አድራሻ ቦሌ", got)
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  ዋጋ \n\t 1000   ብር \n")
	assert.Equal(t, "ዋጋ 1000 ብር", got)
}

func TestNormalizeIdempotent(t *testing.T) {
	texts := []string{
		"ዋጋ፡ 2500 ብር።",
		"አዲስ  አበባ\nቦሌ መገናኛ",
		"",
	}
	for _, text := range texts {
		once := Normalize(text)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain words", "ዋጋ 500 ብር", []string{"ዋጋ", "500", "ብር"}},
		{"ascii punctuation trimmed", "(ቦሌ) ዋጋ: 500", []string{"ቦሌ", "ዋጋ", "500"}},
		{"empty", "", nil},
		{"only punctuation", "!! ...", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("ዋጋ፡  3000 ብር። አድራሻ፡ ቦሌ")
	assert.Equal(t, []string{"ዋጋ", "3000", "ብር", "አድራሻ", "ቦሌ"}, got)
}
