package render

import "strings"

// RunKind identifies the type of an InlineRun.
type RunKind int

const (
	// RunPlain is literal text.
	RunPlain RunKind = iota
	// RunBold is text wrapped in double asterisks.
	RunBold
	// RunCode is text wrapped in single backticks.
	RunCode
)

// String returns the kind name.
func (k RunKind) String() string {
	switch k {
	case RunPlain:
		return "plain"
	case RunBold:
		return "bold"
	case RunCode:
		return "code"
	default:
		return "unknown"
	}
}

// InlineRun is a typed piece of a text span.
type InlineRun struct {
	Kind RunKind `json:"kind"`
	Text string  `json:"text"`
}

const (
	boldDelim = "**"
	codeDelim = "`"

	// lineBreaks end the text a delimiter pair may span.
	lineBreaks = "\n\r\u2028\u2029"
)

// Format splits a text span into bold, inline code and plain runs.
//
// Bold is resolved first and its content is never scanned again, so
// **`x`** is bold text containing backticks. Inline code is then resolved in
// the gaps. Neither delimiter pair may span a line break (\n, \r, U+2028
// or U+2029). Unmatched delimiters stay in the plain text. Empty plain runs
// are dropped.
func Format(text string) []InlineRun {
	var runs []InlineRun
	for _, part := range splitDelimited(text, boldDelim) {
		if part.matched {
			runs = append(runs, InlineRun{Kind: RunBold, Text: part.text})
			continue
		}
		for _, sub := range splitDelimited(part.text, codeDelim) {
			switch {
			case sub.matched:
				runs = append(runs, InlineRun{Kind: RunCode, Text: sub.text})
			case sub.text != "":
				runs = append(runs, InlineRun{Kind: RunPlain, Text: sub.text})
			}
		}
	}
	return runs
}

type delimited struct {
	text    string
	matched bool
}

// splitDelimited cuts s at every shortest delim...delim pair that does not
// contain a line break, scanning left to right. Matched parts have their
// delimiters removed.
func splitDelimited(s, delim string) []delimited {
	var parts []delimited
	start := 0 // beginning of the pending gap
	pos := 0   // next position to look for an opening delimiter
	for pos < len(s) {
		i := strings.Index(s[pos:], delim)
		if i < 0 {
			break
		}
		open := pos + i
		inner := open + len(delim)

		line := s[inner:]
		if nl := strings.IndexAny(line, lineBreaks); nl >= 0 {
			line = line[:nl]
		}
		j := strings.Index(line, delim)
		if j < 0 {
			pos = open + 1
			continue
		}

		if open > start {
			parts = append(parts, delimited{text: s[start:open]})
		}
		parts = append(parts, delimited{text: s[inner : inner+j], matched: true})
		pos = inner + j + len(delim)
		start = pos
	}
	if start < len(s) {
		parts = append(parts, delimited{text: s[start:]})
	}
	return parts
}
