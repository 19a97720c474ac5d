package patchfile

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"locpatch/internal/merge"
)

// JSONLoader decodes .json patch files. gjson iterates objects in document
// order, which encoding/json maps would lose. A top-level array is read as an
// RFC 6902 JSON Patch instead (see loadJSONPatch).
type JSONLoader struct{}

func NewJSONLoader() *JSONLoader { return &JSONLoader{} }

func (l *JSONLoader) CanLoad(ext string) bool {
	return ext == ".json"
}

func (l *JSONLoader) Load(name string, data []byte) ([]merge.Request, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, invalid(name, 0, "malformed JSON")
	}
	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return loadJSONPatch(name, data)
	}
	if !root.IsObject() {
		return nil, invalid(name, 1, "top level must map section keys to entries")
	}

	var (
		reqs []merge.Request
		err  error
	)
	root.ForEach(func(key, body gjson.Result) bool {
		if !body.IsObject() {
			err = invalid(name, lineAt(data, body.Index), "section %q must be an object", key.String())
			return false
		}
		req := merge.Request{Section: key.String()}
		body.ForEach(func(ek, ev gjson.Result) bool {
			var u merge.Upsert
			u, err = jsonEntry(ek.String(), ev)
			if err != nil {
				err = invalid(name, lineAt(data, ev.Index), "section %q: %v", req.Section, err)
				return false
			}
			req.Entries = append(req.Entries, u)
			return true
		})
		if err != nil {
			return false
		}
		reqs = append(reqs, req)
		return true
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func jsonEntry(entry string, v gjson.Result) (merge.Upsert, error) {
	switch {
	case v.Type == gjson.String:
		s := v.Str
		return entryFields{value: &s}.upsert(entry)
	case v.IsObject():
		var (
			f    entryFields
			ferr error
		)
		v.ForEach(func(k, fv gjson.Result) bool {
			if fv.Type != gjson.String {
				ferr = fmt.Errorf("entry %q: field %q must be a string", entry, k.String())
				return false
			}
			text := fv.Str
			switch k.String() {
			case "value":
				f.value = &text
			case "literal":
				f.literal = &text
			case "after":
				f.after = text
			default:
				ferr = fmt.Errorf("entry %q: unknown field %q", entry, k.String())
				return false
			}
			return true
		})
		if ferr != nil {
			return merge.Upsert{}, ferr
		}
		return f.upsert(entry)
	}
	return merge.Upsert{}, fmt.Errorf("entry %q must be a string or an object", entry)
}

// lineAt converts a byte offset into a 1-based line number.
func lineAt(data []byte, off int) int {
	if off <= 0 || off > len(data) {
		return 0
	}
	return bytes.Count(data[:off], []byte{'\n'}) + 1
}
