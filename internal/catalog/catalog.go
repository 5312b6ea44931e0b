package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the static list of module names the tool attempts to stub,
// together with the policy lists that shape the run. Names with a slash
// denote nested modules. Which entries are problematic or excluded encodes
// device-specific workarounds discovered empirically; the lists are data,
// never logic.
type Catalog struct {
	Modules      []string `yaml:"modules"`
	Problematic  []string `yaml:"problematic"`
	Excluded     []string `yaml:"excluded"`
	KeepLoaded   []string `yaml:"keepLoaded"`
	KeepInternal []string `yaml:"keepInternal"`
}

// Load reads a YAML catalog file and overlays it on the built-in defaults.
// A list present in the file replaces the default list; an absent list keeps
// the default.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	var over Catalog
	if err := yaml.Unmarshal(data, &over); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog: %w", err)
	}
	return overlay(Default(), over), nil
}

func overlay(base, over Catalog) Catalog {
	out := base
	if over.Modules != nil {
		out.Modules = over.Modules
	}
	if over.Problematic != nil {
		out.Problematic = over.Problematic
	}
	if over.Excluded != nil {
		out.Excluded = over.Excluded
	}
	if over.KeepLoaded != nil {
		out.KeepLoaded = over.KeepLoaded
	}
	if over.KeepInternal != nil {
		out.KeepInternal = over.KeepInternal
	}
	return out
}

// WithModules returns a copy with extra module names merged in as a sorted
// set union.
func (c Catalog) WithModules(extra ...string) Catalog {
	if len(extra) == 0 {
		return c
	}
	seen := make(map[string]bool, len(c.Modules)+len(extra))
	merged := make([]string, 0, len(c.Modules)+len(extra))
	for _, m := range append(append([]string{}, c.Modules...), extra...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		merged = append(merged, m)
	}
	sort.Strings(merged)
	out := c
	out.Modules = merged
	return out
}

// Ordered returns the module names to attempt, nested (slash-named) entries
// first so they run while free heap is most plentiful, each group sorted.
func (c Catalog) Ordered() []string {
	var nested, flat []string
	for _, m := range c.Modules {
		if strings.Contains(m, "/") {
			nested = append(nested, m)
		} else {
			flat = append(flat, m)
		}
	}
	sort.Strings(nested)
	sort.Strings(flat)
	return append(nested, flat...)
}

// Marshal returns canonical YAML bytes for the catalog: fixed key order,
// two-space indent, each list sorted.
func Marshal(c Catalog) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode}
	appendList := func(key string, vals []string) {
		sorted := append([]string{}, vals...)
		sort.Strings(sorted)
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range sorted {
			seq.Content = append(seq.Content, scalarNode(v))
		}
		top.Content = append(top.Content, scalarNode(key), seq)
	}
	appendList("modules", c.Modules)
	appendList("problematic", c.Problematic)
	appendList("excluded", c.Excluded)
	appendList("keepLoaded", c.KeepLoaded)
	appendList("keepInternal", c.KeepInternal)

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
