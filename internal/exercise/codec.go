// internal/exercise/codec.go
package exercise

import "strings"

// The encoded exercise text is a sequence of entries separated by ", ".
// Each entry is "<name>: <metric> <value> <unit>", e.g.
// "Pushups: reps 20 count, Squats: reps 15 count".
const (
	entrySeparator = ", "
	nameSeparator  = ": "
)

// Entry is one (metric, value, unit) triple decoded from the text.
type Entry struct {
	Metric string
	Value  string
	Unit   string
}

// NamedEntry pairs an Entry with the exercise name it was grouped under.
type NamedEntry struct {
	Name string
	Entry
}

// Decoded is an ordered mapping from exercise name to the entries decoded
// under it. Names keep first-seen order; entries keep input order.
type Decoded struct {
	names  []string
	groups map[string][]Entry
}

// Decode parses the encoded exercise text into grouped entries.
//
// Malformed entries are silently dropped: an entry that does not split on
// ": " into exactly two parts, or whose remainder yields fewer than three
// space-separated tokens, contributes nothing. Tokens beyond the third are
// ignored. Empty input decodes to an empty mapping, never an error.
//
// There is no escaping mechanism: a comma or colon inside a name or value
// misparses silently. The decode is one-directional; the raw text on the
// owning record stays the source of truth.
func Decode(text string) Decoded {
	d := Decoded{groups: make(map[string][]Entry)}
	if text == "" {
		return d
	}

	for _, raw := range strings.Split(text, entrySeparator) {
		parts := strings.Split(raw, nameSeparator)
		if len(parts) != 2 {
			continue
		}

		tokens := strings.Split(strings.TrimSpace(parts[1]), " ")
		if len(tokens) < 3 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		if _, seen := d.groups[name]; !seen {
			d.names = append(d.names, name)
		}
		d.groups[name] = append(d.groups[name], Entry{
			Metric: tokens[0],
			Value:  tokens[1],
			Unit:   tokens[2],
		})
	}
	return d
}

// Names returns the exercise names in first-seen order.
func (d Decoded) Names() []string {
	return d.names
}

// Entries returns the decoded entries for a given exercise name, in input
// order. Returns nil for an unknown name.
func (d Decoded) Entries(name string) []Entry {
	return d.groups[name]
}

// Len reports the total number of decoded entries across all names.
func (d Decoded) Len() int {
	n := 0
	for _, entries := range d.groups {
		n += len(entries)
	}
	return n
}

// All flattens the mapping into named entries, grouped by name in first-seen
// order. This is the shape persisted as Exercise rows.
func (d Decoded) All() []NamedEntry {
	out := make([]NamedEntry, 0, d.Len())
	for _, name := range d.names {
		for _, e := range d.groups[name] {
			out = append(out, NamedEntry{Name: name, Entry: e})
		}
	}
	return out
}
