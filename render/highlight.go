package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// highlightStyle is the chroma style used for code blocks.
const highlightStyle = "monokai"

// CodeClass is the class the generated stylesheet scopes its rules to.
const CodeClass = "chroma"

var htmlFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

var (
	styleSheetOnce sync.Once
	styleSheet     string
)

// StyleSheet returns the CSS rules for highlighted code blocks.
func StyleSheet() string {
	styleSheetOnce.Do(func() {
		var buf bytes.Buffer
		if err := htmlFormatter.WriteCSS(&buf, codeStyle()); err == nil {
			styleSheet = buf.String()
		}
	})
	return styleSheet
}

func codeStyle() *chroma.Style {
	style := chromaStyles.Get(highlightStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}
	return style
}

// codeLexer returns the lexer for a fence language. Code blocks are SQL
// unless the fence names another language chroma knows.
func codeLexer(language string) chroma.Lexer {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(strings.ToLower(language))
	}
	if lexer == nil {
		lexer = lexers.Get("sql")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// highlightHTML returns code as class-annotated HTML. ok is false when
// highlighting failed and the caller should escape the code itself.
func highlightHTML(code, language string) (string, bool) {
	return highlight(htmlFormatter, code, language)
}

// highlightTerminal returns code with 256-colour escape sequences.
func highlightTerminal(code, language string) (string, bool) {
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return "", false
	}
	return highlight(formatter, code, language)
}

func highlight(formatter chroma.Formatter, code, language string) (string, bool) {
	iterator, err := codeLexer(language).Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, codeStyle(), iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}
