// Package suggest lets a user walk a heading tree and filter it by query.
package suggest

import (
	"slices"
	"strings"

	"github.com/dgallion1/headingkit/internal/heading"
)

// Match kinds, best first.
const (
	MatchAll       = "all"       // Empty query
	MatchSubstring = "substring" // Query occurs verbatim, ignoring case
	MatchFuzzy     = "fuzzy"     // Query characters occur in order
)

// Item is one heading offered for selection.
type Item struct {
	Node     *heading.Node `json:"-"`
	Line     int           `json:"line"`
	Level    int           `json:"level"`
	Text     string        `json:"text"`
	Children int           `json:"children"`
	Kind     string        `json:"kind"`

	// Matches are the rune indices of Text that matched the query.
	Matches []int `json:"matches,omitempty"`
}

// Navigator holds the position of a user walking a heading tree. Stepping
// into a heading remembers the query and selection so stepping out restores
// them.
type Navigator struct {
	tree   *heading.Tree
	ref    *heading.Node
	expand bool

	refs      []*heading.Node
	queries   []string
	selection []int
}

// NewNavigator starts at the root of tree.
func NewNavigator(tree *heading.Tree, expand bool) *Navigator {
	return &Navigator{tree: tree, ref: tree.Root, expand: expand}
}

// Reference returns the heading whose children are listed.
func (n *Navigator) Reference() *heading.Node { return n.ref }

// Depth is the number of headings stepped into.
func (n *Navigator) Depth() int { return len(n.refs) }

// Expanded reports whether the whole subtree is listed.
func (n *Navigator) Expanded() bool { return n.expand }

// ToggleExpand switches between listing direct children and the flattened
// subtree of the reference heading.
func (n *Navigator) ToggleExpand() bool {
	n.expand = !n.expand
	return n.expand
}

// Candidates returns the headings currently on offer, unfiltered.
func (n *Navigator) Candidates() []*heading.Node {
	if n.expand {
		return n.tree.Flatten(nil, n.ref)
	}
	return n.ref.Children
}

// Items returns the candidates matching query. Substring matches come first
// in document order, followed by fuzzy matches with the tightest first.
func (n *Navigator) Items(query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))

	var exact, fuzzy []Item
	for _, node := range n.Candidates() {
		item := Item{
			Node:     node,
			Line:     node.Line(),
			Level:    node.Level(),
			Text:     node.Text(),
			Children: len(node.Children),
		}
		if query == "" {
			item.Kind = MatchAll
			exact = append(exact, item)
			continue
		}
		if m := substring(query, item.Text); m != nil {
			item.Kind, item.Matches = MatchSubstring, m
			exact = append(exact, item)
		} else if m := subsequence(query, item.Text); m != nil {
			item.Kind, item.Matches = MatchFuzzy, m
			fuzzy = append(fuzzy, item)
		}
	}

	slices.SortStableFunc(fuzzy, func(a, b Item) int { return spread(a.Matches) - spread(b.Matches) })
	return append(exact, fuzzy...)
}

// StepInto makes node the reference heading. query and selected are the
// state to restore on StepOut. Headings without children cannot be entered.
func (n *Navigator) StepInto(node *heading.Node, query string, selected int) bool {
	if node == nil || len(node.Children) == 0 {
		return false
	}
	n.refs = append(n.refs, n.ref)
	n.queries = append(n.queries, query)
	n.selection = append(n.selection, selected)
	n.ref = node
	return true
}

// StepOut returns to the previous reference heading and the query and
// selection that were active there.
func (n *Navigator) StepOut() (query string, selected int, ok bool) {
	last := len(n.refs) - 1
	if last < 0 {
		return "", 0, false
	}
	n.ref, query, selected = n.refs[last], n.queries[last], n.selection[last]
	n.refs, n.queries, n.selection = n.refs[:last], n.queries[:last], n.selection[:last]
	return query, selected, true
}

func substring(query, text string) []int {
	lower := []rune(strings.ToLower(text))
	q := []rune(query)
	for i := 0; i+len(q) <= len(lower); i++ {
		if slices.Equal(lower[i:i+len(q)], q) {
			m := make([]int, len(q))
			for j := range m {
				m[j] = i + j
			}
			return m
		}
	}
	return nil
}

// subsequence matches query characters left to right.
func subsequence(query, text string) []int {
	q := []rune(query)
	var m []int
	for i, r := range []rune(strings.ToLower(text)) {
		if len(m) < len(q) && r == q[len(m)] {
			m = append(m, i)
		}
	}
	if len(m) != len(q) {
		return nil
	}
	return m
}

func spread(m []int) int {
	if len(m) == 0 {
		return 0
	}
	return m[len(m)-1] - m[0]
}
