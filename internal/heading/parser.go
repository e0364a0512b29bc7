package heading

import (
	"regexp"
	"strings"
)

// headingLine matches an ATX heading, optionally nested in a blockquote
// and/or a list item. Group 1 is the structural prefix, group 2 the markers.
// A bare heading may be indented by at most three spaces; deeper lines are
// indented code.
var headingLine = regexp.MustCompile(`^((?:\s*>{1,6} \s*(?:(?:[-*+]|\d{1,6}\.) \s*)?)|(?:\s*(?:[-*+]|\d{1,6}\.) \s*)| {0,3})(#{1,6}) (.*)$`)

// fenceLine matches a fenced code block delimiter, with the same blockquote
// and list prefixes a heading may carry.
var fenceLine = regexp.MustCompile("^(?:\\s*>{1,6} )?\\s*(?:(?:[-*+]|\\d{1,6}\\.) )?\\s*(`{3,}|~{3,})(.*)$")

// fence tracks the currently open code fence.
type fence struct {
	char byte
	size int
}

// closes reports whether line closes the open fence: same character, at least
// as long, nothing but whitespace after it.
func (f fence) closes(line string) bool {
	m := fenceLine.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return m[1][0] == f.char && len(m[1]) >= f.size && strings.TrimSpace(m[2]) == ""
}

// SplitLines splits text into lines on "\n". A trailing newline yields a final
// empty line, so the result always has at least one element.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Parse scans markdown text and returns its headings in document order.
// Headings inside fenced code blocks are ignored.
func Parse(text string) []Record {
	var records []Record
	var open *fence

	for i, line := range SplitLines(text) {
		if open != nil {
			if open.closes(line) {
				open = nil
			}
			continue
		}
		if m := fenceLine.FindStringSubmatch(line); m != nil {
			// Backtick fences cannot carry backticks in their info string.
			if m[1][0] != '`' || !strings.Contains(m[2], "`") {
				open = &fence{char: m[1][0], size: len(m[1])}
				continue
			}
		}

		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		records = append(records, Record{
			Line:   i,
			Level:  len(m[2]),
			Prefix: m[1],
			Header: ParseHeader(m[3]),
		})
	}

	return records
}
