package heading

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// outline renders a tree as indented header texts for easy comparison.
func outline(t *Tree) []string {
	var out []string
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			indent := ""
			for range depth {
				indent += "  "
			}
			out = append(out, indent+c.Text())
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
	return out
}

func TestBuild_Hierarchy(t *testing.T) {
	tree := NewTree(sampleDoc, 6)

	want := []string{
		"Title",
		"  A",
		"    A1",
		"  B",
	}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
	if tree.LineCount != 11 {
		t.Errorf("expected line count 11, got %d", tree.LineCount)
	}
	if !tree.Root.IsRoot() || tree.Root.Level() != 0 || tree.Root.Line() != -1 {
		t.Errorf("unexpected root: %+v", tree.Root.Heading)
	}
}

func TestBuild_SkippedLevels(t *testing.T) {
	tree := NewTree("# A\n### B\n## C\n#### D\n# E", 6)

	want := []string{
		"A",
		"  B",
		"  C",
		"    D",
		"E",
	}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}

	b := tree.NodeStartingAt(1)
	if b == nil || b.Parent().Text() != "A" {
		t.Fatalf("expected B under A, got %+v", b)
	}
}

func TestBuild_LevelLimit(t *testing.T) {
	tree := NewTree("# A\n## B\n### C\n## D", 2)

	want := []string{"A", "  B", "  D"}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}

	// Out-of-range limits fall back to all levels.
	if got := len(NewTree("###### deep", 0).Root.Children); got != 1 {
		t.Errorf("expected limit 0 to keep level 6, got %d children", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	tree := NewTree("", 6)
	if len(tree.Root.Children) != 0 {
		t.Errorf("expected no children, got %d", len(tree.Root.Children))
	}
	if tree.LineCount != 1 {
		t.Errorf("expected line count 1, got %d", tree.LineCount)
	}
}

func TestBuild_DescendantsAreDeeper(t *testing.T) {
	input := "## x\n# a\n### b\n## c\n###### d\n#### e\n# f\n## g\n### h\n## i"
	tree := NewTree(input, 6)

	var check func(n *Node)
	check = func(n *Node) {
		for _, d := range tree.Flatten(nil, n) {
			if d.Level() <= n.Level() {
				t.Errorf("descendant %q (level %d) not deeper than %q (level %d)",
					d.Text(), d.Level(), n.Text(), n.Level())
			}
		}
		for i := 1; i < len(n.Children); i++ {
			if n.Children[i].Level() > n.Children[i-1].Level() {
				t.Errorf("children of %q increase in level at %q", n.Text(), n.Children[i].Text())
			}
		}
		for _, c := range n.Children {
			if c.Parent() != n {
				t.Errorf("child %q has wrong parent", c.Text())
			}
			check(c)
		}
	}
	check(tree.Root)

	// Flattening reproduces the parsed heading lines in order.
	records := Parse(input)
	flat := tree.Flatten(nil, nil)
	if len(flat) != len(records) {
		t.Fatalf("expected %d nodes, got %d", len(records), len(flat))
	}
	for i, n := range flat {
		if n.Heading.Markdown() != records[i].Markdown() {
			t.Errorf("node %d: expected %q, got %q", i, records[i].Markdown(), n.Heading.Markdown())
		}
	}
}

func TestNode_Breadcrumb(t *testing.T) {
	tree := NewTree(sampleDoc, 6)
	a1 := tree.NodeStartingAt(5)
	if a1 == nil {
		t.Fatal("expected node at line 5")
	}
	want := []string{"Title", "A", "A1"}
	if diff := cmp.Diff(want, a1.Breadcrumb()); diff != "" {
		t.Errorf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
	if bc := tree.Root.Breadcrumb(); len(bc) != 0 {
		t.Errorf("expected empty root breadcrumb, got %v", bc)
	}
}
