package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "event handler removed",
			input: `<img src=x onerror=alert(1)>`,
			want:  `<img src="x"/>`,
		},
		{
			name:  "javascript href removed",
			input: `<a href="javascript:alert(1)">x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:  "javascript scheme is case insensitive with leading space",
			input: `<a href="  JaVaScRiPt:alert(1)" title="t">x</a>`,
			want:  `<a title="t">x</a>`,
		},
		{
			name:  "javascript src removed",
			input: `<img src="javascript:alert(1)" alt="a">`,
			want:  `<img alt="a"/>`,
		},
		{
			name:  "safe href kept",
			input: `<a href="https://example.com/docs">docs</a>`,
			want:  `<a href="https://example.com/docs">docs</a>`,
		},
		{
			name:  "script removed and paragraph kept",
			input: `<script>evil()</script><p>ok</p>`,
			want:  `<p>ok</p>`,
		},
		{
			name:  "style attribute removed",
			input: `<div style="display:none">x</div>`,
			want:  `<div>x</div>`,
		},
		{
			name:  "denied elements removed deeply",
			input: `<div><iframe src="https://x"><p>inner</p></iframe><span>keep</span></div>`,
			want:  `<div><span>keep</span></div>`,
		},
		{
			name:  "every denied element",
			input: `<style>p{}</style><link rel="stylesheet" href="x"><meta charset="utf-8"><object data="x"></object><embed src="x"><b>b</b>`,
			want:  `<b>b</b>`,
		},
		{
			name:  "uppercase handler attribute",
			input: `<button ONCLICK="steal()" type="button">go</button>`,
			want:  `<button type="button">go</button>`,
		},
		{
			name:  "nested attributes cleaned",
			input: `<table><tr><td onmouseover="x()" style="color:red">1</td></tr></table>`,
			want:  `<table><tbody><tr><td>1</td></tr></tbody></table>`,
		},
		{
			name:  "unclosed tags auto close",
			input: `<p>one<p>two`,
			want:  `<p>one</p><p>two</p>`,
		},
		{
			name:  "plain text escaped",
			input: `a < b`,
			want:  `a &lt; b`,
		},
		{
			name:  "empty input",
			input: ``,
			want:  ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeInvariants(t *testing.T) {
	inputs := []string{
		`<svg><script>alert(1)</script><a xlink:href="javascript:x()">y</a></svg>`,
		`<div onload=x()><p onclick="y()" style="a:b">t</p></div>`,
		`<IFRAME SRC="x"></IFRAME><SCRIPT>1</SCRIPT><STYLE>p{}</STYLE>`,
		`<a href="&#106;avascript:alert(1)">entity</a>`,
		`<p>unterminated <b>bold <i>italic`,
		`<form action="/x"><input onfocus=alert(1) autofocus></form>`,
	}
	for _, in := range inputs {
		out := strings.ToLower(Sanitize(in))
		for tag := range deniedElements {
			assert.NotContains(t, out, "<"+tag, in)
		}
		assert.NotContains(t, out, " on", in)
		assert.NotContains(t, out, "style=", in)
		assert.NotContains(t, out, "javascript:", in)
	}
}

func TestSanitizeSettlesMisnestedMarkup(t *testing.T) {
	assert.Equal(t, `<a></a><a>y</a><table></table>`, Sanitize(`<a><table><a>y</a></table></a>`))
	assert.Equal(t, `<form id="a"><div>z</div></form>`, Sanitize(`<form id=a><div></form><form>z</form>`))
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`<img src=x onerror=alert(1)>`,
		`<script>evil()</script><p>ok</p>`,
		`<div style="display:none">x</div>`,
		`<p>one<p>two`,
		`<table>loose<tr><td>1</td></tr></table>`,
		`<ul><li>a<li>b</ul><pre>  SELECT 1</pre>`,
		`text &amp; more <br> <hr/>`,
		`<h2>Result</h2><p><code>SELECT *</code> returns <strong>all</strong> rows</p>`,
		`<a><table><a>y</a></table></a>`,
		`<form id=a><div></form><form>z</form>`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), in)
	}
}
