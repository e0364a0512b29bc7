package heading

// Range is the line span of a heading section. To is exclusive: it is the start
// line of the next same-or-shallower heading, or the tree's line count.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Len returns the number of lines in the range.
func (r Range) Len() int { return r.To - r.From }

// Contains reports whether line falls inside the range.
func (r Range) Contains(line int) bool { return line >= r.From && line < r.To }

// LineEnd returns the exclusive end line of n's section: the start line of the
// next heading in document order whose level is at most n's, or lineCount when
// no such heading follows.
func LineEnd(n *Node, lineCount int) int {
	// A parent's children never increase in level, so the next child is always
	// same-or-shallower; otherwise the answer is an ancestor's next sibling.
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.parent {
		if next := cur.nextSibling(); next != nil {
			return next.Line()
		}
	}
	return lineCount
}

func (n *Node) nextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	kids := n.parent.Children
	for i, c := range kids {
		if c == n && i+1 < len(kids) {
			return kids[i+1]
		}
	}
	return nil
}

// Range returns n's section span using the line count recorded at build time.
func (t *Tree) Range(n *Node) Range {
	if n.IsRoot() {
		return Range{From: 0, To: t.LineCount}
	}
	return Range{From: n.Line(), To: LineEnd(n, t.LineCount)}
}

// Flatten returns the descendants of from (the root when nil) in depth-first
// document order. A nil filter keeps every node.
func (t *Tree) Flatten(filter func(*Node) bool, from *Node) []*Node {
	if from == nil {
		from = t.Root
	}
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if filter == nil || filter(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(from)
	return out
}

// SearchLastContiguous walks the nodes in document order and returns the last
// node of the leading run satisfying pred. The walk stops at the first node
// that fails pred. Returns nil if the first node already fails.
func (t *Tree) SearchLastContiguous(pred func(*Node) bool) *Node {
	var last *Node
	for _, n := range t.Flatten(nil, nil) {
		if !pred(n) {
			break
		}
		last = n
	}
	return last
}

// NodeAtLine returns the innermost heading whose section contains line, or nil
// when line precedes the first heading.
func (t *Tree) NodeAtLine(line int) *Node {
	return t.SearchLastContiguous(func(n *Node) bool { return n.Line() <= line })
}

// NodeStartingAt returns the node whose heading sits exactly on line.
func (t *Tree) NodeStartingAt(line int) *Node {
	n := t.NodeAtLine(line)
	if n == nil || n.Line() != line {
		return nil
	}
	return n
}

// ChildrenAtLevel returns parent's children of the given level, in document order.
func (t *Tree) ChildrenAtLevel(parent *Node, level int) []*Node {
	var out []*Node
	for _, c := range parent.Children {
		if c.Level() == level {
			out = append(out, c)
		}
	}
	return out
}

// Siblings returns the group n belongs to: its parent's children sharing its
// level, in document order, n included.
func (t *Tree) Siblings(n *Node) []*Node {
	if n == nil || n.IsRoot() {
		return nil
	}
	return t.ChildrenAtLevel(n.parent, n.Level())
}
