package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dgallion1/headingkit/internal/heading"
	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/suggest"
)

func treeCmd() *cobra.Command {
	var levelLimit int
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the heading outline of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := host.DiskFiles{}.Read(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("tree: %w", err)
			}
			if levelLimit == 0 {
				levelLimit = cfg.Headings.LevelLimit
			}
			tree := heading.NewTree(text, levelLimit)
			for _, n := range tree.Flatten(nil, nil) {
				r := tree.Range(n)
				fmt.Printf("%5d-%-5d %s%s\n", r.From, r.To-1, strings.Repeat("  ", n.Level()-1), n.Text())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&levelLimit, "level-limit", 0, "deepest heading level to show (default from config)")
	return cmd
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <file>",
		Short: "Interactively walk and filter the headings of a note",
		Long: `Type to filter the listed headings. Commands:
  :N     step into heading N
  ..     step out
  :e     toggle listing the whole subtree
  =N     print heading N and quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := suggest.Open(cmd.Context(), suggest.Source{Path: args[0]}, host.DiskFiles{},
				cfg.Headings.LevelLimit, cfg.Headings.Expand)
			if err != nil {
				return fmt.Errorf("find: %w", err)
			}
			item, ok, err := browse(nav)
			if err != nil {
				return fmt.Errorf("find: %w", err)
			}
			if ok {
				fmt.Printf("%d\t%s\n", item.Line, strings.Join(item.Node.Breadcrumb(), " > "))
			}
			return nil
		},
	}
}

// browse runs the find prompt until a heading is chosen or input ends.
func browse(nav *suggest.Navigator) (suggest.Item, bool, error) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	query := ""
	for {
		items := nav.Items(query)
		printItems(nav, items)

		input, err := state.PromptWithSuggestion("find> ", query, -1)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return suggest.Item{}, false, nil
			}
			return suggest.Item{}, false, fmt.Errorf("reading query: %w", err)
		}
		input = strings.TrimSpace(input)

		switch {
		case input == "..":
			if q, _, ok := nav.StepOut(); ok {
				query = q
			}
		case input == ":e":
			nav.ToggleExpand()
		case strings.HasPrefix(input, ":"), strings.HasPrefix(input, "="):
			n, err := strconv.Atoi(input[1:])
			if err != nil || n < 1 || n > len(items) {
				fmt.Printf("no heading %q\n", input[1:])
				continue
			}
			item := items[n-1]
			if input[0] == '=' {
				return item, true, nil
			}
			if nav.StepInto(item.Node, query, n-1) {
				query = ""
			} else {
				fmt.Printf("%q has no subheadings\n", item.Text)
			}
		default:
			state.AppendHistory(input)
			query = input
		}
	}
}

func printItems(nav *suggest.Navigator, items []suggest.Item) {
	ref := "(top)"
	if !nav.Reference().IsRoot() {
		ref = nav.Reference().Text()
	}
	fmt.Printf("-- %s (%d) --\n", ref, len(items))
	for i, it := range items {
		children := ""
		if it.Children > 0 {
			children = fmt.Sprintf(" [%d]", it.Children)
		}
		fmt.Printf("%3d) %s %s%s\n", i+1, strings.Repeat("#", it.Level), highlight(it.Text, it.Matches), children)
	}
}

// highlight brackets the matched runes of text.
func highlight(text string, matches []int) string {
	if len(matches) == 0 {
		return text
	}
	hit := make(map[int]bool, len(matches))
	for _, m := range matches {
		hit[m] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if hit[i] {
			b.WriteString("[" + string(r) + "]")
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
