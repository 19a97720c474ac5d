package patchfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"locpatch/internal/merge"
)

// YAMLLoader decodes .yaml and .yml patch files. It walks the node tree
// instead of decoding into maps so that key order and line numbers survive.
type YAMLLoader struct{}

func NewYAMLLoader() *YAMLLoader { return &YAMLLoader{} }

func (l *YAMLLoader) CanLoad(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func (l *YAMLLoader) Load(name string, data []byte) ([]merge.Request, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, invalid(name, top.Line, "top level must map section keys to entries")
	}

	var reqs []merge.Request
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, body := top.Content[i], resolve(top.Content[i+1])
		if body.Kind != yaml.MappingNode {
			return nil, invalid(name, body.Line, "section %q must be a mapping", key.Value)
		}
		req := merge.Request{Section: key.Value}
		for j := 0; j+1 < len(body.Content); j += 2 {
			ek, ev := body.Content[j], resolve(body.Content[j+1])
			u, err := yamlEntry(ek.Value, ev)
			if err != nil {
				return nil, invalid(name, ev.Line, "section %q: %v", key.Value, err)
			}
			req.Entries = append(req.Entries, u)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func yamlEntry(entry string, n *yaml.Node) (merge.Upsert, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return merge.Upsert{}, fmt.Errorf("entry %q has no value", entry)
		}
		v := n.Value
		return entryFields{value: &v}.upsert(entry)
	case yaml.MappingNode:
		var f entryFields
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i].Value, resolve(n.Content[i+1])
			if v.Kind != yaml.ScalarNode {
				return merge.Upsert{}, fmt.Errorf("entry %q: field %q must be a scalar", entry, k)
			}
			text := v.Value
			switch k {
			case "value":
				f.value = &text
			case "literal":
				f.literal = &text
			case "after":
				f.after = text
			default:
				return merge.Upsert{}, fmt.Errorf("entry %q: unknown field %q", entry, k)
			}
		}
		return f.upsert(entry)
	}
	return merge.Upsert{}, fmt.Errorf("entry %q must be a string or a mapping", entry)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
