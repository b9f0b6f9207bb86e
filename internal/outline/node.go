package outline

import "github.com/a3tai/taxdoc-binder/internal/model"

// Node is one entry of the bookmark tree. Structural nodes carry a title and
// children; leaves carry a page and an optional title. An untitled leaf places
// its page in the output without a bookmark.
type Node struct {
	Title    string         `yaml:"title,omitempty"`
	Parent   *Node          `yaml:"-"`
	Children []*Node        `yaml:"children,omitempty"`
	Page     *model.PageRef `yaml:"page,omitempty"`
	// Extras are additional bookmarks that share the leaf's page
	Extras []string `yaml:"extras,omitempty"`
	// Position is the 0-based output page, set during emission. It is -1
	// until then and stays -1 for leaves dropped as repeats.
	Position int `yaml:"position"`
}

// NewRoot creates the untitled root of a tree
func NewRoot() *Node {
	return &Node{Position: -1}
}

// IsLeaf reports whether the node places a page
func (n *Node) IsLeaf() bool {
	return n.Page != nil
}

// Section creates a detached structural node. Attach it with Adopt once it
// has content so that empty sections never reach the tree.
func Section(title string) *Node {
	return &Node{Title: title, Position: -1}
}

// Adopt attaches child when it is a leaf or has at least one child. It
// reports whether the child was attached.
func (n *Node) Adopt(child *Node) bool {
	if child == nil || (!child.IsLeaf() && len(child.Children) == 0) {
		return false
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	return true
}

// AddPage appends a page leaf
func (n *Node) AddPage(ref model.PageRef, title string, extras ...string) *Node {
	r := ref
	leaf := &Node{Title: title, Page: &r, Extras: extras, Position: -1}
	n.Adopt(leaf)
	return leaf
}

// Child returns the first direct child with the given title
func (n *Node) Child(title string) *Node {
	for _, c := range n.Children {
		if c.Title == title {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in child order, stopping
// early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Leaves returns every page leaf in depth-first order
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.IsLeaf() {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Path returns the titles from the top-level section down to n
func (n *Node) Path() []string {
	var rev []string
	for x := n; x != nil && x.Parent != nil; x = x.Parent {
		rev = append(rev, x.Title)
	}
	out := make([]string, len(rev))
	for i, t := range rev {
		out[len(rev)-1-i] = t
	}
	return out
}
