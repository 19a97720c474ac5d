package dict

import "locpatch/internal/textutil"

type itemKind int

const (
	itemGap itemKind = iota
	itemEntry
	itemOther // spread, shorthand property or anything else that is not `name: value`
)

// item is one piece of a section body. Gaps hold the bytes between children
// (blank lines, comment lines); entries and other children hold their own
// span. Inserted entries have no span.
type item struct {
	kind       itemKind
	name       string
	value      string
	start      int
	end        int
	nameStart  int
	valueStart int
	valueEnd   int
	termEnd    int // end of the separating comma, or valueEnd without one
	comma      bool
	tail       bool // gap before the closing brace
	inserted   bool
	updated    bool
}

// Entry is a read-only view of one `name: value` child of a section.
type Entry struct {
	Name  string
	Value string
	// Start and End delimit the entry in the original bytes; both are -1 for
	// an entry inserted since parsing.
	Start int
	End   int
}

// Removal records one duplicate entry dropped by RemoveDuplicates.
type Removal struct {
	Section string
	Name    string
	Value   string
	// Offset is the entry's position in the original bytes, -1 if it was
	// inserted since parsing.
	Offset int
}

// UpsertOutcome tells what Upsert did.
type UpsertOutcome int

const (
	Unchanged UpsertOutcome = iota
	Updated
	Inserted
)

func (o UpsertOutcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Inserted:
		return "inserted"
	default:
		return "unchanged"
	}
}

// Section is one `key: { ... }` block and the ordered entries inside it.
type Section struct {
	Key   string
	Start int // start of the line holding the key
	End   int // just past the closing brace

	openEnd    int
	closeStart int
	indent     string
	items      []*item
	dirty      bool
	removed    []Removal
	doc        *Document
}

// Dirty reports whether the section differs from the original bytes.
func (s *Section) Dirty() bool { return s.dirty }

// Get returns the value text of the first entry called name.
func (s *Section) Get(name string) (string, bool) {
	if it := s.find(name); it != nil {
		return it.value, true
	}
	return "", false
}

// Has reports whether an entry called name exists.
func (s *Section) Has(name string) bool { return s.find(name) != nil }

// Entries returns every entry in order, duplicates included.
func (s *Section) Entries() []Entry {
	out := make([]Entry, 0, len(s.items)/2)
	for _, it := range s.items {
		if it.kind == itemEntry {
			out = append(out, it.view())
		}
	}
	return out
}

// Names returns the distinct entry names in first-occurrence order.
func (s *Section) Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range s.items {
		if it.kind != itemEntry {
			continue
		}
		if _, ok := seen[it.name]; ok {
			continue
		}
		seen[it.name] = struct{}{}
		out = append(out, it.name)
	}
	return out
}

// Duplicates returns every entry that repeats an earlier name.
func (s *Section) Duplicates() []Entry {
	seen := make(map[string]struct{})
	var out []Entry
	for _, it := range s.items {
		if it.kind != itemEntry {
			continue
		}
		if _, ok := seen[it.name]; ok {
			out = append(out, it.view())
			continue
		}
		seen[it.name] = struct{}{}
	}
	return out
}

// Removed lists the duplicates dropped so far, in removal order.
func (s *Section) Removed() []Removal {
	return append([]Removal(nil), s.removed...)
}

// Upsert replaces the value of an existing entry in place, or inserts a new
// entry right after anchor. When anchor is empty or absent the entry is
// appended after the last child.
func (s *Section) Upsert(name, value, anchor string) UpsertOutcome {
	if it := s.find(name); it != nil {
		if it.value == value {
			return Unchanged
		}
		it.value = value
		if !it.inserted {
			it.updated = true
		}
		s.dirty = true
		return Updated
	}

	pos := -1
	if anchor != "" {
		if i := s.indexOf(anchor); i >= 0 {
			pos = i + 1
		}
	}
	if pos < 0 {
		pos = s.appendPos()
	}
	it := &item{kind: itemEntry, name: name, value: value, inserted: true, start: -1, end: -1, comma: true}
	s.items = append(s.items, nil)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = it
	s.dirty = true
	return Inserted
}

// RemoveDuplicates keeps the first entry of every name and deletes the rest.
// It returns how many entries were deleted. A deleted entry that shares its
// line with an earlier child leaves its trailing comment and line break
// behind, together with the line's other children.
func (s *Section) RemoveDuplicates() int {
	src := s.doc.raw
	seen := make(map[string]struct{})
	kept := make([]*item, 0, len(s.items))
	removed := 0
	for _, it := range s.items {
		if it.kind == itemEntry {
			if _, ok := seen[it.name]; ok {
				s.removed = append(s.removed, Removal{Section: s.Key, Name: it.name, Value: it.value, Offset: it.start})
				removed++
				if !it.inserted && it.start != lineStart(src, it.start) {
					if n := len(kept); n > 0 && isBlankGap(src, kept[n-1]) {
						kept = kept[:n-1]
					}
					if it.end > it.termEnd {
						kept = append(kept, &item{kind: itemGap, start: it.termEnd, end: it.end})
					}
				}
				continue
			}
			seen[it.name] = struct{}{}
		}
		kept = append(kept, it)
	}
	s.items = kept
	if removed > 0 {
		s.dirty = true
	}
	return removed
}

// isBlankGap reports whether it is a gap of spaces and tabs only.
func isBlankGap(src []byte, it *item) bool {
	if it.kind != itemGap || it.end <= it.start {
		return false
	}
	for _, c := range src[it.start:it.end] {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

func (s *Section) find(name string) *item {
	if i := s.indexOf(name); i >= 0 {
		return s.items[i]
	}
	return nil
}

func (s *Section) indexOf(name string) int {
	for i, it := range s.items {
		if it.kind == itemEntry && it.name == name {
			return i
		}
	}
	return -1
}

// appendPos is the slot right after the last child, ahead of the gap that
// precedes the closing brace.
func (s *Section) appendPos() int {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].kind != itemGap {
			return i + 1
		}
	}
	return 0
}

func (it *item) view() Entry {
	return Entry{Name: it.name, Value: it.value, Start: it.start, End: it.end}
}

// renderName spells a name as an object key, quoting it when it is not a
// plain identifier.
func renderName(name string) string {
	if textutil.IsIdentifier(name) {
		return name
	}
	return textutil.QuoteLiteral(name)
}
