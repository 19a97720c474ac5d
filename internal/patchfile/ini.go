package patchfile

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"locpatch/internal/merge"
)

// INILoader decodes .ini patch files:
//
//	[fr]
//	donate_here = Faire un don ici
//	donate_desc = Donner sans attendre
//	donate_desc.after = donate_here
//	footer_note.literal = """`© ${year}`"""
//
// A bare key sets the value; the ".after" and ".literal" suffixes set the
// anchor and verbatim value text of the entry named by the rest of the key.
// The INI reader strips a surrounding pair of backticks, so a template
// literal has to be wrapped in triple quotes.
type INILoader struct{}

func NewINILoader() *INILoader { return &INILoader{} }

func (l *INILoader) CanLoad(ext string) bool {
	return ext == ".ini"
}

func (l *INILoader) Load(name string, data []byte) ([]merge.Request, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var reqs []merge.Request
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				return nil, invalid(name, 0, "key %q is outside any [section]", sec.Keys()[0].Name())
			}
			continue
		}
		req, err := iniSection(sec)
		if err != nil {
			return nil, invalid(name, 0, "section %q: %v", sec.Name(), err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func iniSection(sec *ini.Section) (merge.Request, error) {
	var order []string
	fields := make(map[string]*entryFields)
	get := func(entry string) *entryFields {
		if f, ok := fields[entry]; ok {
			return f
		}
		f := &entryFields{}
		fields[entry] = f
		order = append(order, entry)
		return f
	}

	for _, k := range sec.Keys() {
		key, text := k.Name(), k.Value()
		switch {
		case strings.HasSuffix(key, ".after"):
			get(strings.TrimSuffix(key, ".after")).after = text
		case strings.HasSuffix(key, ".literal"):
			get(strings.TrimSuffix(key, ".literal")).literal = &text
		default:
			get(key).value = &text
		}
	}

	req := merge.Request{Section: sec.Name()}
	for _, entry := range order {
		if entry == "" {
			return merge.Request{}, fmt.Errorf("suffix without an entry name")
		}
		u, err := fields[entry].upsert(entry)
		if err != nil {
			return merge.Request{}, err
		}
		req.Entries = append(req.Entries, u)
	}
	return req, nil
}
