package tokenizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"sentence", "The cat sat. The CAT ran!", []string{"the", "cat", "sat", "the", "cat", "ran"}},
		{"markup kept", `<p class="x">Hi</p>`, []string{"p", "class", "x", "hi", "p"}},
		{"punctuation splits words", "don't-stop", []string{"don", "t", "stop"}},
		{"digits", "Go 1.25 released", []string{"go", "1", "25", "released"}},
		{"non ascii letters split", "café olé", []string{"caf", "ol"}},
		{"whitespace runs", " a\t\tb\r\n c ", []string{"a", "b", "c"}},
		{"empty", "", []string{}},
		{"only punctuation", "!!! ???", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrequencies(t *testing.T) {
	got := Frequencies("The cat sat. The CAT ran!")
	assert.Equal(t, map[string]int{"the": 2, "cat": 2, "sat": 1, "ran": 1}, got)
}

func TestFrequenciesEmpty(t *testing.T) {
	assert.Empty(t, Frequencies("... ,,, ---"))
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cat", "cat"},
		{"  Cat  ", "cat"},
		{"...hello, world", "hello"},
		{"go lang", "go"},
		{"!!!", ""},
		{"   ", ""},
		{"C3PO!", "c3po"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.in))
		})
	}
}

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"page": strings.Repeat(`<html><head><script>var x = 1;</script></head>
		<body><div class="article"><p>Feeds list entries, each entry links to a page,
		and every token of that page is counted.</p></div></body></html>`, 50),
}

func BenchmarkFrequencies(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = Frequencies(text)
			}
		})
	}
}
