package heading

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MaxLevel is the deepest ATX heading level.
const MaxLevel = 6

// Header is the text of a heading line after its markers.
type Header struct {
	Text      string // Raw header text, exactly as written
	Title     string // Plain-text title without the timestamp
	Timestamp string // Leading or trailing date-time, empty if none
}

// Record is one recognized heading line.
type Record struct {
	Line   int    // 0-based start line, fixed at parse time
	Level  int    // 1-6, from the marker count
	Prefix string // Blockquote/list prefix preceding the markers
	Header Header
}

// Markdown reconstructs the heading line the record was parsed from.
func (r Record) Markdown() string {
	return r.Prefix + strings.Repeat("#", r.Level) + " " + r.Header.Text
}

const timestampPattern = `\d{4}-\d{2}-\d{2}(?:[ T]\d{2}:\d{2}(?::\d{2}(?:\.\d{1,3})?)?)?`

var (
	leadingTimestamp  = regexp.MustCompile(`^\s*\[?(` + timestampPattern + `)\]?(?:\s*[-|:]\s*|\s+|$)(.*)$`)
	trailingTimestamp = regexp.MustCompile(`^(.*?)(?:\s*[-|:]\s*|\s+|^)\[?(` + timestampPattern + `)\]?\s*$`)
)

// ParseHeader splits raw header text into its title and timestamp parts.
func ParseHeader(raw string) Header {
	h := Header{Text: raw}
	title := raw
	if m := leadingTimestamp.FindStringSubmatch(raw); m != nil {
		h.Timestamp = m[1]
		title = m[2]
	} else if m := trailingTimestamp.FindStringSubmatch(raw); m != nil {
		h.Timestamp = m[2]
		title = m[1]
	}
	h.Title = plainText(title)
	return h
}

// inlineParser only knows paragraphs, so list or quote markers inside a
// header are kept as text while emphasis, code spans and links are resolved.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
)

// plainText renders inline markdown to its visible text.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "*_`[<\\~") {
		return s
	}
	src := []byte(s)
	doc := inlineParser.Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
