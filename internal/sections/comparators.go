package sections

import (
	"fmt"
	"strings"

	"github.com/dgallion1/headingkit/internal/heading"
)

// Comparator orders two headings: negative when a sorts first, positive when b
// does, zero when they are equal.
type Comparator func(a, b *heading.Node) int

// ByHeader compares raw header text.
func ByHeader(a, b *heading.Node) int {
	return strings.Compare(a.Heading.Header.Text, b.Heading.Header.Text)
}

// ByTitle compares parsed titles.
func ByTitle(a, b *heading.Node) int {
	return strings.Compare(a.Heading.Header.Title, b.Heading.Header.Title)
}

// ByTimestamp compares parsed timestamps. Headings without one compare as the
// empty string, so they come first in ascending order.
func ByTimestamp(a, b *heading.Node) int {
	return strings.Compare(a.Heading.Header.Timestamp, b.Heading.Header.Timestamp)
}

// Descending reverses c.
func Descending(c Comparator) Comparator {
	return func(a, b *heading.Node) int { return c(b, a) }
}

// Preset is a named comparator offered to the user.
type Preset struct {
	Name       string     `json:"name"`
	Descending bool       `json:"descending"`
	Label      string     `json:"label"`
	Compare    Comparator `json:"-"`
}

var presetKeys = []struct {
	name    string
	display string
	compare Comparator
}{
	{"header", "By Header", ByHeader},
	{"title", "By Title", ByTitle},
	{"timestamp", "By Timestamp", ByTimestamp},
}

// Presets returns every comparator preset, ascending before descending.
func Presets() []Preset {
	var out []Preset
	for _, k := range presetKeys {
		out = append(out,
			Preset{Name: k.name, Label: "ASC  :: " + k.display + " :: ASC", Compare: k.compare},
			Preset{Name: k.name, Descending: true, Label: "DESC :: " + k.display + " :: DESC", Compare: Descending(k.compare)},
		)
	}
	return out
}

// PresetByName looks up a preset by key ("header", "title", "timestamp").
func PresetByName(name string, descending bool) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == strings.ToLower(name) && p.Descending == descending {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownSort, name)
}

// Labels returns the labels of presets, in order.
func Labels(presets []Preset) []string {
	labels := make([]string, len(presets))
	for i, p := range presets {
		labels[i] = p.Label
	}
	return labels
}
