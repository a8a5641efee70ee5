package bbcode

import (
	"regexp"
	"strings"
)

// blank lines separate paragraphs, a line of spaces or tabs is blank too
var blankLines = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

// Segment splits top-level nodes into paragraphs and block-level elements.
// The tree is not modified, elements whose content changes are copied.
func Segment(nodes []Node) []Section {
	var (
		sections []Section
		current  []Node
	)
	flush := func() {
		if children := trimBreaks(breakLines(trimNodes(current))); len(children) > 0 {
			sections = append(sections, &Paragraph{Children: children})
		}
		current = nil
	}

	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			for i, part := range blankLines.Split(n.Value, -1) {
				if i > 0 {
					flush()
				}
				if part != "" {
					current = append(current, &Text{Value: part})
				}
			}
			continue
		case *Element:
			if n.Spec.Category == Block {
				flush()
				block := *n
				block.Children = trimBreaks(breakLines(trimNodes(n.Children)))
				if len(block.Children) > 0 {
					sections = append(sections, &Passthrough{Element: &block})
				}
				continue
			}
		}
		current = append(current, n)
	}
	flush()

	return sections
}

// breakLines replaces line feeds in text with LineBreak nodes. Content of
// literal and media elements is left untouched.
func breakLines(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			lines := strings.Split(n.Value, "\n")
			for i, line := range lines {
				if i > 0 {
					out = append(out, &LineBreak{})
				}
				if line != "" {
					out = append(out, &Text{Value: line})
				}
			}
			continue
		case *Element:
			switch n.Spec.Category {
			case Literal, Media:
			case Inline, Link:
				out = append(out, hoistBreaks(n)...)
				continue
			default:
				el := *n
				el.Children = breakLines(n.Children)
				out = append(out, &el)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// hoistBreaks breaks the lines of an inline element and moves line breaks
// at its edges out of it. An element left without content is dropped.
func hoistBreaks(n *Element) []Node {
	children := breakLines(n.Children)
	start, end := 0, len(children)
	for start < end && isBreak(children[start]) {
		start++
	}
	for end > start && isBreak(children[end-1]) {
		end--
	}

	out := append([]Node(nil), children[:start]...)
	if start < end {
		el := *n
		el.Children = children[start:end]
		out = append(out, &el)
	}
	return append(out, children[end:]...)
}

// trimBreaks strips line breaks at both ends of nodes
func trimBreaks(nodes []Node) []Node {
	for len(nodes) > 0 && isBreak(nodes[0]) {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && isBreak(nodes[len(nodes)-1]) {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func isBreak(n Node) bool {
	_, ok := n.(*LineBreak)
	return ok
}

// NormalizeNewlines replaces CR (mac / win) line endings with LF (unix).
func NormalizeNewlines(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\r' {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('\n')
		if i < len(s)-1 && s[i+1] == '\n' {
			// this was CRLF, so skip the LF
			i++
		}
	}
	return sb.String()
}
