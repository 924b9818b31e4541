// Package richtext sanitises the HTML edited in CMS pages.
package richtext

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowed = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Hr: true,
	atom.Strong: true, atom.B: true, atom.Em: true, atom.I: true, atom.U: true, atom.S: true,
	atom.H2: true, atom.H3: true, atom.H4: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.A: true, atom.Blockquote: true, atom.Code: true, atom.Pre: true,
}

// dropped elements lose their content too.
var dropped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Object: true,
	atom.Embed: true, atom.Template: true, atom.Noscript: true, atom.Svg: true, atom.Math: true,
}

var voids = map[atom.Atom]bool{atom.Br: true, atom.Hr: true}

// Sanitize keeps a small set of formatting elements. Unknown elements are
// unwrapped, executable ones removed with their content, and every attribute
// except a safe link href is stripped.
func Sanitize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(input), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return html.EscapeString(input)
	}
	var buf bytes.Buffer
	for _, node := range nodes {
		writeNode(&buf, node)
	}
	return strings.TrimSpace(buf.String())
}

// Text returns the visible text of input with collapsed whitespace.
func Text(input string) string {
	nodes, err := html.ParseFragment(strings.NewReader(input), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return strings.Join(strings.Fields(input), " ")
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && dropped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range nodes {
		walk(node)
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

func writeNode(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}
	if dropped[n.DataAtom] {
		return
	}
	if !allowed[n.DataAtom] {
		writeChildren(buf, n)
		return
	}
	buf.WriteByte('<')
	buf.WriteString(n.Data)
	if n.DataAtom == atom.A {
		if href, ok := safeHref(attr(n, "href")); ok {
			buf.WriteString(` href="`)
			buf.WriteString(html.EscapeString(href))
			buf.WriteByte('"')
			if strings.HasPrefix(href, "http") {
				buf.WriteString(` rel="noopener noreferrer" target="_blank"`)
			}
		}
	}
	buf.WriteByte('>')
	if voids[n.DataAtom] {
		return
	}
	writeChildren(buf, n)
	buf.WriteString("</")
	buf.WriteString(n.Data)
	buf.WriteByte('>')
}

func writeChildren(buf *bytes.Buffer, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeNode(buf, child)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func safeHref(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "#") || (strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")) {
		return raw, true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return parsed.String(), true
	default:
		return "", false
	}
}
