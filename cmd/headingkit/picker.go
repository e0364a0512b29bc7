package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// linePicker asks for a choice on the terminal. Labels are listed with
// their number and completed by prefix.
type linePicker struct{}

func (linePicker) Pick(ctx context.Context, placeholder string, labels []string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	fmt.Println(placeholder)
	for i, l := range labels {
		fmt.Printf("  %d) %s\n", i+1, l)
	}

	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		var out []string
		for _, l := range labels {
			if strings.HasPrefix(strings.ToLower(l), strings.ToLower(line)) {
				out = append(out, l)
			}
		}
		return out
	})

	for {
		answer, err := state.Prompt("choice> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("reading choice: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return 0, false, nil
		}
		if idx, ok := choose(answer, labels); ok {
			return idx, true, nil
		}
		fmt.Printf("no choice %q\n", answer)
	}
}

// choose resolves a 1-based number or an exact label.
func choose(answer string, labels []string) (int, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(labels) {
			return n - 1, true
		}
		return 0, false
	}
	for i, l := range labels {
		if strings.EqualFold(l, answer) {
			return i, true
		}
	}
	return 0, false
}
