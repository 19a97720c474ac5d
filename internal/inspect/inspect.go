// Package inspect reports on the health of a dictionary document without
// changing it.
package inspect

import (
	"strconv"

	gyaml "github.com/goccy/go-yaml"
	"github.com/tidwall/sjson"
	"golang.org/x/text/language"

	"locpatch/internal/dict"
	"locpatch/internal/interpolation"
)

// PlaceholderIssue is an entry whose placeholders differ from the
// reference section's entry of the same name.
type PlaceholderIssue struct {
	Name    string
	Missing []string
	Extra   []string
}

// SectionInfo describes one section.
type SectionInfo struct {
	Key     string
	Entries int
	// Tag is the canonical BCP 47 form of Key; empty when Key is not a
	// valid language tag.
	Tag          string
	Duplicates   []string
	Missing      []string // names the reference has and this section lacks
	Extra        []string // names this section has and the reference lacks
	Placeholders []PlaceholderIssue
}

// Report is the result of Inspect.
type Report struct {
	Reference      string
	ReferenceFound bool
	Sections       []SectionInfo
}

// Inspect builds a report for raw. Comparisons against the reference section
// are skipped when it does not exist.
func Inspect(raw []byte, reference string) (*Report, error) {
	doc, err := dict.Parse(raw)
	if err != nil {
		return nil, err
	}

	rep := &Report{Reference: reference}
	ref, ok := doc.Section(reference)
	rep.ReferenceFound = ok

	for _, sec := range doc.Sections() {
		info := SectionInfo{
			Key:     sec.Key,
			Entries: len(sec.Entries()),
		}
		if tag, err := language.Parse(sec.Key); err == nil {
			info.Tag = tag.String()
		}
		for _, d := range sec.Duplicates() {
			info.Duplicates = append(info.Duplicates, d.Name)
		}
		if ok && sec != ref {
			compare(&info, ref, sec)
		}
		rep.Sections = append(rep.Sections, info)
	}
	return rep, nil
}

func compare(info *SectionInfo, ref, sec *dict.Section) {
	for _, name := range ref.Names() {
		v, ok := sec.Get(name)
		if !ok {
			info.Missing = append(info.Missing, name)
			continue
		}
		refValue, _ := ref.Get(name)
		if m := interpolation.Compare(refValue, v); !m.Empty() {
			info.Placeholders = append(info.Placeholders, PlaceholderIssue{Name: name, Missing: m.Missing, Extra: m.Extra})
		}
	}
	for _, name := range sec.Names() {
		if !ref.Has(name) {
			info.Extra = append(info.Extra, name)
		}
	}
}

// Clean reports whether nothing in the report needs attention.
func (r *Report) Clean() bool {
	for _, s := range r.Sections {
		if s.Tag == "" || len(s.Duplicates) > 0 || len(s.Missing) > 0 || len(s.Extra) > 0 || len(s.Placeholders) > 0 {
			return false
		}
	}
	return true
}

// YAML renders the report with sections in document order.
func (r *Report) YAML() ([]byte, error) {
	sections := make(gyaml.MapSlice, 0, len(r.Sections))
	for _, s := range r.Sections {
		body := gyaml.MapSlice{{Key: "entries", Value: s.Entries}}
		if s.Tag != "" {
			body = append(body, gyaml.MapItem{Key: "language", Value: s.Tag})
		} else {
			body = append(body, gyaml.MapItem{Key: "language", Value: "invalid"})
		}
		body = appendList(body, "duplicates", s.Duplicates)
		body = appendList(body, "missing", s.Missing)
		body = appendList(body, "extra", s.Extra)
		if len(s.Placeholders) > 0 {
			issues := make(gyaml.MapSlice, 0, len(s.Placeholders))
			for _, p := range s.Placeholders {
				var detail gyaml.MapSlice
				detail = appendList(detail, "missing", p.Missing)
				detail = appendList(detail, "extra", p.Extra)
				issues = append(issues, gyaml.MapItem{Key: p.Name, Value: detail})
			}
			body = append(body, gyaml.MapItem{Key: "placeholders", Value: issues})
		}
		sections = append(sections, gyaml.MapItem{Key: s.Key, Value: body})
	}

	out := gyaml.MapSlice{
		{Key: "reference", Value: r.Reference},
		{Key: "reference_found", Value: r.ReferenceFound},
		{Key: "clean", Value: r.Clean()},
		{Key: "sections", Value: sections},
	}
	return gyaml.Marshal(out)
}

// JSON renders the same report as YAML does, as a JSON object.
func (r *Report) JSON() ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, v)
		}
	}
	setList := func(path string, items []string) {
		if len(items) > 0 {
			set(path, items)
		}
	}

	set("reference", r.Reference)
	set("reference_found", r.ReferenceFound)
	set("clean", r.Clean())
	set("sections", []any{})
	for i, s := range r.Sections {
		base := "sections." + strconv.Itoa(i)
		set(base+".key", s.Key)
		set(base+".entries", s.Entries)
		if s.Tag != "" {
			set(base+".language", s.Tag)
		} else {
			set(base+".language", "invalid")
		}
		setList(base+".duplicates", s.Duplicates)
		setList(base+".missing", s.Missing)
		setList(base+".extra", s.Extra)
		for j, p := range s.Placeholders {
			pbase := base + ".placeholders." + strconv.Itoa(j)
			set(pbase+".name", p.Name)
			setList(pbase+".missing", p.Missing)
			setList(pbase+".extra", p.Extra)
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func appendList(ms gyaml.MapSlice, key string, items []string) gyaml.MapSlice {
	if len(items) == 0 {
		return ms
	}
	return append(ms, gyaml.MapItem{Key: key, Value: items})
}
