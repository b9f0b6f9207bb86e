package outline

import (
	"strings"
)

// Format renders the tree as indented text, two spaces per level. Leaves
// show their page after the title; untitled leaves show only the page.
func Format(root *Node) string {
	var sb strings.Builder
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		for _, c := range n.Children {
			sb.WriteString(strings.Repeat("  ", depth))
			switch {
			case c.IsLeaf() && c.Title == "":
				sb.WriteString("· " + c.Page.String())
			case c.IsLeaf():
				sb.WriteString(c.Title + " [" + c.Page.String() + "]")
				for _, e := range c.Extras {
					sb.WriteString(" +" + e)
				}
			default:
				sb.WriteString(c.Title)
			}
			sb.WriteByte('\n')
			visit(c, depth+1)
		}
	}
	visit(root, 0)
	return sb.String()
}
