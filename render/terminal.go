package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	termBold   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	termInline = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Background(lipgloss.Color("236"))
	termLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 1).Bold(true)
	termCode   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// Terminal renders message content for a terminal of the given width.
// Markup-mode content is sanitized and reduced to its text.
func Terminal(role Role, content string, width int) string {
	if width < 20 {
		width = 20
	}
	text := lipgloss.NewStyle().Width(width)

	if Classify(role, content) == ModeMarkup {
		return text.Render(markupText(Sanitize(content)))
	}

	var parts []string
	for _, span := range Segment(content) {
		if span.Kind == SpanCode {
			code, ok := highlightTerminal(span.Raw, span.Language)
			if !ok {
				code = span.Raw
			}
			block := termLabel.Render(codeLabel) + "\n" + strings.TrimRight(code, "\n")
			parts = append(parts, termCode.MaxWidth(width).Render(block))
			continue
		}

		var b strings.Builder
		for _, run := range Format(span.Raw) {
			switch run.Kind {
			case RunBold:
				b.WriteString(termBold.Render(run.Text))
			case RunCode:
				b.WriteString(termInline.Render(run.Text))
			default:
				b.WriteString(run.Text)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, text.Render(b.String()))
		}
	}
	return strings.Join(parts, "\n")
}

// markupText extracts readable text from sanitized markup, breaking lines
// after block elements.
func markupText(markup string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			b.WriteByte('\n')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Tr, atom.Pre, atom.Table, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote:
		return true
	}
	return false
}
