package escape_test

import (
	"testing"

	"github.com/aledsdavies/graphcode/escape"
	"github.com/stretchr/testify/assert"
)

func TestEscapeHandledSequences(t *testing.T) {
	cases := map[string]string{
		"\"":       `\"`,
		"\\":       `\\`,
		"\n":       `\n`,
		"\r":       `\r`,
		"\b":       `\b`,
		"\t":       `\t`,
		"\f":       `\f`,
		"<":        `\x3C`,
		"\u2028": `\u2028`,
		"\u2029": `\u2029`,
	}
	for in, want := range cases {
		assert.Equal(t, want, escape.Escape(in))
	}
}

func TestEscapePassesOtherCodePointsThrough(t *testing.T) {
	assert.Equal(t, "hello world", escape.Escape("hello world"))
	assert.Equal(t, "日本語", escape.Escape("日本語"))
}

func TestEscapeScriptTagScenario(t *testing.T) {
	in := "<script></script>"
	out := escape.Escape(in)
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, `\x3Cscript>\x3C/script>`, out)
	assert.Equal(t, in, escape.Unescape(out))
}

func TestRoundTripBijection(t *testing.T) {
	samples := []string{
		"",
		"plain",
		"line1\nline2\r\n\ttabbed",
		"quote\"backslash\\end",
		"  ",
		"<b>bold</b>",
		"\bbackspace\fformfeed",
	}
	for _, s := range samples {
		assert.Equal(t, s, escape.Unescape(escape.Escape(s)), "round trip for %q", s)
	}
}
