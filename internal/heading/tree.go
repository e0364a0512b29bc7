package heading

// Node wraps a heading record in the document tree.
type Node struct {
	Heading  Record
	Children []*Node // Owned subsections, in document order

	parent *Node // Back pointer; the parent's Children slice owns this node
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether n is the synthetic document root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Level returns the heading level; 0 for the root.
func (n *Node) Level() int { return n.Heading.Level }

// Line returns the heading's start line; -1 for the root.
func (n *Node) Line() int { return n.Heading.Line }

// Text returns the raw header text.
func (n *Node) Text() string { return n.Heading.Header.Text }

// Breadcrumb returns the header texts from the top-level ancestor down to n.
func (n *Node) Breadcrumb() []string {
	var bc []string
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.parent {
		bc = append(bc, cur.Text())
	}
	for i, j := 0, len(bc)-1; i < j; i, j = i+1, j-1 {
		bc[i], bc[j] = bc[j], bc[i]
	}
	return bc
}

// Tree is a snapshot of a document's heading hierarchy. It is never updated in
// place; rebuild it whenever the text changes.
type Tree struct {
	Root      *Node
	LineCount int // Line count of the source text at build time
}

// NewTree parses text and builds its heading tree.
func NewTree(text string, levelLimit int) *Tree {
	return Build(Parse(text), len(SplitLines(text)), levelLimit)
}

// Build assembles parsed records into a tree. Records deeper than levelLimit
// are left out entirely. Limits outside 1-6 mean no limit.
func Build(records []Record, lineCount int, levelLimit int) *Tree {
	if levelLimit < 1 || levelLimit > MaxLevel {
		levelLimit = MaxLevel
	}

	// Root is level 0; all h1+ nest under it.
	root := &Node{Heading: Record{Line: -1}}
	stack := []*Node{root}

	for _, rec := range records {
		if rec.Level > levelLimit {
			continue
		}

		// Pop until the top is shallower than the new heading.
		for len(stack) > 1 && stack[len(stack)-1].Level() >= rec.Level {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1]
		node := &Node{Heading: rec, parent: parent}
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	return &Tree{Root: root, LineCount: lineCount}
}
