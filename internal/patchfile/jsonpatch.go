package patchfile

import (
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"locpatch/internal/merge"
)

// loadJSONPatch reads an RFC 6902 document whose operations address entries
// as /<section>/<name>:
//
//	[
//	  {"op": "add", "path": "/fr/donate_here", "value": "Faire un don ici"},
//	  {"op": "replace", "path": "/fr/title", "value": {"literal": "`Purifier`"}}
//	]
//
// Only add and replace are accepted; both become upserts. Consecutive
// operations on one section form one request.
func loadJSONPatch(name string, data []byte) ([]merge.Request, error) {
	patch, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return nil, invalid(name, 0, "JSON Patch: %v", err)
	}

	var reqs []merge.Request
	for i, op := range patch {
		kind := op.Kind()
		if kind != "add" && kind != "replace" {
			return nil, invalid(name, 0, "operation %d: %q is not supported (want add or replace)", i, kind)
		}
		path, err := op.Path()
		if err != nil {
			return nil, invalid(name, 0, "operation %d: %v", i, err)
		}
		section, entry, err := splitPointer(path)
		if err != nil {
			return nil, invalid(name, 0, "operation %d: %v", i, err)
		}
		v, err := op.ValueInterface()
		if err != nil {
			return nil, invalid(name, 0, "operation %d: %v", i, err)
		}
		u, err := patchEntry(entry, v)
		if err != nil {
			return nil, invalid(name, 0, "operation %d: %v", i, err)
		}

		if n := len(reqs); n > 0 && reqs[n-1].Section == section {
			reqs[n-1].Entries = append(reqs[n-1].Entries, u)
			continue
		}
		reqs = append(reqs, merge.Request{Section: section, Entries: []merge.Upsert{u}})
	}
	return reqs, nil
}

// splitPointer parses /<section>/<name>, undoing ~1 and ~0 escapes.
func splitPointer(p string) (section, entry string, err error) {
	if !strings.HasPrefix(p, "/") {
		return "", "", fmt.Errorf("path %q must start with '/'", p)
	}
	parts := strings.Split(p[1:], "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("path %q must be /<section>/<name>", p)
	}
	unescape := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return unescape(parts[0]), unescape(parts[1]), nil
}

func patchEntry(entry string, v any) (merge.Upsert, error) {
	switch t := v.(type) {
	case string:
		return entryFields{value: &t}.upsert(entry)
	case map[string]any:
		var f entryFields
		for k, raw := range t {
			s, ok := raw.(string)
			if !ok {
				return merge.Upsert{}, fmt.Errorf("entry %q: field %q must be a string", entry, k)
			}
			switch k {
			case "value":
				f.value = &s
			case "literal":
				f.literal = &s
			case "after":
				f.after = s
			default:
				return merge.Upsert{}, fmt.Errorf("entry %q: unknown field %q", entry, k)
			}
		}
		return f.upsert(entry)
	}
	return merge.Upsert{}, fmt.Errorf("entry %q must be a string or an object", entry)
}
