package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []InlineRun
	}{
		{
			name: "bold and inline code",
			text: "Use **bold** and `code` here",
			want: []InlineRun{
				{Kind: RunPlain, Text: "Use "},
				{Kind: RunBold, Text: "bold"},
				{Kind: RunPlain, Text: " and "},
				{Kind: RunCode, Text: "code"},
				{Kind: RunPlain, Text: " here"},
			},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "plain only",
			text: "nothing special",
			want: []InlineRun{{Kind: RunPlain, Text: "nothing special"}},
		},
		{
			name: "bold wins over inline code",
			text: "**`users.id`** is the key",
			want: []InlineRun{
				{Kind: RunBold, Text: "`users.id`"},
				{Kind: RunPlain, Text: " is the key"},
			},
		},
		{
			name: "inline code content is not bold",
			text: "`a ** b` and",
			want: []InlineRun{
				{Kind: RunCode, Text: "a ** b"},
				{Kind: RunPlain, Text: " and"},
			},
		},
		{
			name: "unmatched bold stays literal",
			text: "a ** b",
			want: []InlineRun{{Kind: RunPlain, Text: "a ** b"}},
		},
		{
			name: "unmatched backtick stays literal",
			text: "it`s fine",
			want: []InlineRun{{Kind: RunPlain, Text: "it`s fine"}},
		},
		{
			name: "bold does not cross newline",
			text: "**open\nclose**",
			want: []InlineRun{{Kind: RunPlain, Text: "**open\nclose**"}},
		},
		{
			name: "bold does not cross CRLF",
			text: "**open\r\nclose**",
			want: []InlineRun{{Kind: RunPlain, Text: "**open\r\nclose**"}},
		},
		{
			name: "code does not cross carriage return",
			text: "`a\rb`",
			want: []InlineRun{{Kind: RunPlain, Text: "`a\rb`"}},
		},
		{
			name: "bold does not cross line separator",
			text: "**a\u2028b**",
			want: []InlineRun{{Kind: RunPlain, Text: "**a\u2028b**"}},
		},
		{
			name: "shortest bold match",
			text: "**a** b **c**",
			want: []InlineRun{
				{Kind: RunBold, Text: "a"},
				{Kind: RunPlain, Text: " b "},
				{Kind: RunBold, Text: "c"},
			},
		},
		{
			name: "adjacent matches drop empty plain",
			text: "**a**`b`",
			want: []InlineRun{
				{Kind: RunBold, Text: "a"},
				{Kind: RunCode, Text: "b"},
			},
		},
		{
			name: "empty bold",
			text: "****",
			want: []InlineRun{{Kind: RunBold, Text: ""}},
		},
		{
			name: "triple asterisk",
			text: "***a**",
			want: []InlineRun{{Kind: RunBold, Text: "*a"}},
		},
		{
			name: "unclosed first line then match on next",
			text: "x ** y\n**z**",
			want: []InlineRun{
				{Kind: RunPlain, Text: "x ** y\n"},
				{Kind: RunBold, Text: "z"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.text))
		})
	}
}

func TestRunKindString(t *testing.T) {
	assert.Equal(t, "plain", RunPlain.String())
	assert.Equal(t, "bold", RunBold.String())
	assert.Equal(t, "code", RunCode.String())
}
