package render

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// deniedElements are removed together with everything inside them.
var deniedElements = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"link":   true,
	"meta":   true,
}

// maxSanitizeRounds bounds the passes Sanitize makes before giving up.
const maxSanitizeRounds = 4

// Sanitize removes dangerous content from an HTML fragment and returns the
// cleaned markup.
//
// Elements in the deny-list are removed with their descendants. On every
// remaining element, event handler attributes (on*), style attributes and
// href/src values using the javascript: scheme are removed. If the fragment
// cannot be parsed or serialized the result is the empty string.
//
// Serialized misnested markup can parse into a different tree, so the
// cleaned output is fed back until it no longer changes. The result is a
// fixed point: Sanitize(Sanitize(x)) == Sanitize(x). Output that does not
// settle within maxSanitizeRounds passes is dropped.
func Sanitize(markup string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	cur, err := sanitizePass(markup)
	if err != nil {
		return ""
	}
	for i := 0; i < maxSanitizeRounds; i++ {
		next, err := sanitizePass(cur)
		if err != nil {
			return ""
		}
		if next == cur {
			return cur
		}
		cur = next
	}
	return ""
}

// sanitizePass parses markup as a body fragment, cleans it and renders it.
func sanitizePass(markup string) (string, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		if isDenied(n) {
			continue
		}
		cleanTree(n)
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// cleanTree strips attributes from n and removes denied descendants.
func cleanTree(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = cleanAttrs(n.Attr)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isDenied(c) {
			n.RemoveChild(c)
		} else {
			cleanTree(c)
		}
		c = next
	}
}

func isDenied(n *html.Node) bool {
	return n.Type == html.ElementNode && deniedElements[strings.ToLower(n.Data)]
}

// cleanAttrs returns attrs without the attributes the sanitizer forbids.
func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if !allowedAttr(a) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func allowedAttr(a html.Attribute) bool {
	name := strings.ToLower(a.Key)
	switch {
	case strings.HasPrefix(name, "on"):
		return false
	case name == "style":
		return false
	case name == "href" || name == "src":
		return !isJavaScriptURL(a.Val)
	}
	return true
}

func isJavaScriptURL(v string) bool {
	v = strings.TrimLeftFunc(v, unicode.IsSpace)
	const scheme = "javascript:"
	return len(v) >= len(scheme) && strings.EqualFold(v[:len(scheme)], scheme)
}
