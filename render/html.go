package render

import (
	"html"
	"html/template"
	"strings"
)

// Tailwind classes used by the structured renderer.
const (
	classCodeWrap  = "relative group my-3"
	classCodeLabel = "absolute right-2 top-2 text-[10px] text-slate-400 bg-slate-800 px-2 py-0.5 rounded opacity-70"
	classCodePre   = CodeClass + " block bg-slate-900 text-slate-100 p-3 rounded-lg text-xs font-mono overflow-x-auto border border-slate-700"
	classText      = "whitespace-pre-wrap text-sm leading-relaxed mb-1"
	classBold      = "font-semibold text-slate-900"
	classInline    = "bg-slate-100 text-pink-600 px-1.5 py-0.5 rounded text-xs font-mono border border-slate-200 mx-0.5"
	classMarkup    = "markup-content text-sm leading-relaxed"
)

// codeLabel is shown on every code block.
const codeLabel = "SQL"

// HTML renders message content for the web UI.
//
// Markup-mode content is sanitized and returned as is. Everything else is
// segmented and formatted, with all text escaped.
func HTML(role Role, content string) template.HTML {
	if Classify(role, content) == ModeMarkup {
		return template.HTML(`<div class="` + classMarkup + `">` + Sanitize(content) + `</div>`)
	}
	return template.HTML(StructuredHTML(content))
}

// StructuredHTML renders content through Segment and Format.
func StructuredHTML(content string) string {
	var b strings.Builder
	for _, span := range Segment(content) {
		switch span.Kind {
		case SpanCode:
			writeCodeBlock(&b, span)
		default:
			writeTextSpan(&b, span.Raw)
		}
	}
	return b.String()
}

func writeCodeBlock(b *strings.Builder, span Span) {
	code, ok := highlightHTML(span.Raw, span.Language)
	if !ok {
		code = html.EscapeString(span.Raw)
	}
	b.WriteString(`<div class="` + classCodeWrap + `">`)
	b.WriteString(`<div class="` + classCodeLabel + `">` + codeLabel + `</div>`)
	b.WriteString(`<pre class="` + classCodePre + `"><code>`)
	b.WriteString(code)
	b.WriteString(`</code></pre></div>`)
}

func writeTextSpan(b *strings.Builder, text string) {
	b.WriteString(`<div class="` + classText + `">`)
	for _, run := range Format(text) {
		escaped := html.EscapeString(run.Text)
		switch run.Kind {
		case RunBold:
			b.WriteString(`<strong class="` + classBold + `">` + escaped + `</strong>`)
		case RunCode:
			b.WriteString(`<code class="` + classInline + `">` + escaped + `</code>`)
		default:
			b.WriteString(`<span>` + escaped + `</span>`)
		}
	}
	b.WriteString(`</div>`)
}
