package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/headingkit/internal/actions"
	"github.com/dgallion1/headingkit/internal/host"
)

func strikeCmd() *cobra.Command {
	var line, end, fromCh, toCh int
	cmd := &cobra.Command{
		Use:   "strike <file>",
		Short: "Toggle strikethrough on lines or a span within one line",
		Long:  "Strike every non-blank line from --line to --end. With --from-ch and --to-ch the span of --line between them is struck as is, or unstruck when it already carries markers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := openDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("strike: %w", err)
			}

			switch {
			case fromCh >= 0 && toCh >= 0:
				doc.buf.SetSelection(host.Position{Line: line, Ch: fromCh}, host.Position{Line: line, Ch: toCh})
			case end > line:
				doc.buf.SetSelection(host.Position{Line: line}, host.Position{Line: end})
			default:
				doc.at(line)
			}

			doc.runner().SmartStrikethrough()
			return doc.report(ctx, "updated")
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "0-based first line")
	cmd.Flags().IntVarP(&end, "end", "e", -1, "0-based last line (default --line)")
	cmd.Flags().IntVar(&fromCh, "from-ch", -1, "start column of a span within --line")
	cmd.Flags().IntVar(&toCh, "to-ch", -1, "end column of a span within --line")
	return cmd
}

func jumpCmd() *cobra.Command {
	var line int
	var prev bool
	cmd := &cobra.Command{
		Use:   "jump <file>",
		Short: "Print the line of the next or previous heading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("jump: %w", err)
			}
			dir, where := 1, "after"
			if prev {
				dir, where = -1, "before"
			}
			if !doc.at(line).runner().JumpToHeading(dir) {
				return fmt.Errorf("jump: no heading %s line %d", where, line)
			}
			target := doc.buf.GetCursor(host.CursorHead).Line
			fmt.Printf("%d\t%s\n", target, doc.buf.GetLine(target))
			return nil
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "0-based line to start from")
	cmd.Flags().BoolVarP(&prev, "prev", "p", false, "jump backwards")
	return cmd
}

func nowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Show the current weekday, UTC offset and timestamp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notices := &host.LogNotifier{}
			r := actions.NewRunner(&host.Services{Notices: notices, Log: newLogger()}, cfg.Actions())
			r.ShowCurrentDateAndTime(time.Now())
			for _, n := range notices.Notices() {
				fmt.Println(strings.Join(n.Lines, "\n"))
			}
			return nil
		},
	}
}
