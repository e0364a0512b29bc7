package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/headingkit/internal/host"
	"github.com/dgallion1/headingkit/internal/sections"
)

func sortCmd() *cobra.Command {
	var (
		by   string
		desc bool
		line int
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Sort the sibling headings around a line",
		Long:  "Sort the sibling group of the heading section containing --line. Without --by the order is picked interactively. --all sorts every group of the document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := openDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("sort: %w", err)
			}

			if all {
				if by == "" {
					by = "header"
				}
				preset, err := sections.PresetByName(by, desc)
				if err != nil {
					return fmt.Errorf("sort: %w", err)
				}
				folds, err := doc.svc.Folds.GetFolds()
				if err != nil {
					return fmt.Errorf("sort: %w", err)
				}
				res, err := sections.SortDocument(doc.buf.GetValue(), preset.Compare, folds)
				if err != nil {
					return fmt.Errorf("sort: %w", err)
				}
				doc.buf.ReplaceRange(res.Text, host.Position{}, endOf(doc))
				if err := doc.svc.Folds.ApplyFolds(res.Folds, doc.buf.LineCount()); err != nil {
					return fmt.Errorf("sort: %w", err)
				}
				fmt.Fprintf(os.Stderr, "%d groups rewritten\n", res.Groups)
				return doc.report(ctx, "sorted")
			}

			r := doc.at(line).runner()
			if by == "" {
				doc.svc.Picker = linePicker{}
				_, err = r.SortSiblingHeadings(ctx)
			} else {
				var preset sections.Preset
				preset, err = sections.PresetByName(by, desc)
				if err != nil {
					return fmt.Errorf("sort: %w", err)
				}
				_, err = r.SortSiblingHeadingsBy(ctx, preset.Compare)
			}
			if err != nil {
				return fmt.Errorf("sort: %w", err)
			}
			return doc.report(ctx, "sorted")
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "sort key: header, title or timestamp")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVarP(&line, "line", "l", 0, "0-based line inside the heading section")
	cmd.Flags().BoolVar(&all, "all", false, "sort every sibling group of the document (default order: header)")
	cmd.MarkFlagsMutuallyExclusive("all", "line")
	return cmd
}

func moveCmd() *cobra.Command {
	var line, delta int
	cmd := &cobra.Command{
		Use:   "move <file>",
		Short: "Move a heading section among its siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := openDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("move: %w", err)
			}
			if _, err := doc.at(line).runner().MoveHeading(ctx, delta); err != nil {
				return fmt.Errorf("move: %w", err)
			}
			if err := doc.report(ctx, "moved"); err != nil {
				return err
			}
			fmt.Println(doc.buf.GetCursor(host.CursorHead).Line)
			return nil
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "0-based line inside the heading section")
	cmd.Flags().IntVarP(&delta, "delta", "d", 1, "places to move; negative moves up")
	return cmd
}

func cutCmd() *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "cut <file>",
		Short: "Remove a heading section and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := openDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("cut: %w", err)
			}
			if _, err := doc.at(line).runner().CutHeadingSection(ctx); err != nil {
				return fmt.Errorf("cut: %w", err)
			}
			return doc.report(ctx, "cut from")
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "0-based line inside the heading section")
	return cmd
}

func endOf(doc *document) host.Position {
	last := doc.buf.LineCount() - 1
	return host.Position{Line: last, Ch: len(doc.buf.GetLine(last))}
}
