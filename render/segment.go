package render

import "strings"

// Fence delimits a code block.
const Fence = "```"

// SpanKind identifies the type of a Span.
type SpanKind int

const (
	// SpanText is ordinary message text.
	SpanText SpanKind = iota
	// SpanCode is a fenced code block.
	SpanCode
)

// String returns the kind name.
func (k SpanKind) String() string {
	switch k {
	case SpanText:
		return "text"
	case SpanCode:
		return "code"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k SpanKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span is a contiguous slice of message content.
type Span struct {
	Kind SpanKind `json:"kind"`

	// Raw is the span content. For code blocks the fences and the
	// language header are not included.
	Raw string `json:"raw"`

	// Language is the tag written after the opening fence, if any.
	Language string `json:"language,omitempty"`

	// Unterminated is set on a code block whose closing fence is missing.
	Unterminated bool `json:"unterminated,omitempty"`

	// header is the exact text stripped after the opening fence.
	header string
}

// Source returns the original text the span was cut from.
func (s Span) Source() string {
	if s.Kind != SpanCode {
		return s.Raw
	}
	var b strings.Builder
	b.Grow(len(Fence)*2 + len(s.header) + len(s.Raw))
	b.WriteString(Fence)
	b.WriteString(s.header)
	b.WriteString(s.Raw)
	if !s.Unterminated {
		b.WriteString(Fence)
	}
	return b.String()
}

// Segment splits content into code blocks and text spans in document order.
//
// A code block runs from a fence to the next fence. An opening fence with no
// closing fence turns the rest of the input into one unterminated block.
// Empty text between blocks is not emitted; the empty string yields a single
// empty text span. Concatenating Source of every span returns content.
func Segment(content string) []Span {
	if content == "" {
		return []Span{{Kind: SpanText}}
	}

	var spans []Span
	rest := content
	for rest != "" {
		open := strings.Index(rest, Fence)
		if open < 0 {
			spans = append(spans, Span{Kind: SpanText, Raw: rest})
			break
		}
		if open > 0 {
			spans = append(spans, Span{Kind: SpanText, Raw: rest[:open]})
		}

		body := rest[open+len(Fence):]
		code := Span{Kind: SpanCode}
		if end := strings.Index(body, Fence); end >= 0 {
			rest = body[end+len(Fence):]
			body = body[:end]
		} else {
			code.Unterminated = true
			rest = ""
		}
		code.Language, code.header = fenceHeader(body)
		code.Raw = body[len(code.header):]
		spans = append(spans, code)
	}
	return spans
}

// fenceHeader returns the language tag and the full header to strip from the
// start of a code block body. A header is a word followed by a newline, or a
// bare newline.
func fenceHeader(body string) (lang, header string) {
	i := 0
	for i < len(body) && isWordByte(body[i]) {
		i++
	}
	if i < len(body) && body[i] == '\n' {
		return body[:i], body[:i+1]
	}
	return "", ""
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
