package convert

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document wraps converted markup into a complete HTML document. The body
// is parsed the way browsers parse it, so markup they restructure (a <pre>
// inside a <p>, for instance) is written in its restructured form.
func Document(title, body string) ([]byte, error) {
	bodyNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(body), bodyNode)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		bodyNode.AppendChild(n)
	}

	titleNode := element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head := element(atom.Head)
	head.AppendChild(meta)
	head.AppendChild(titleNode)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(bodyNode)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}
