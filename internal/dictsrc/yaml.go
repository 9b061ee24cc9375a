// Package dictsrc supplies query.DictionaryFinder implementations backed
// by on-disk fixture files, so deployments can define a name's query
// without recompiling. There is no teacher analogue for this (daql's
// model definitions compile from xelf source, not from a plain string
// dictionary), so the shape here is this module's own, with the file
// formats chosen to reuse libraries already pulled in by other components
// (dictsrc here, cmd/josson config elsewhere).
package dictsrc

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAML is a query.DictionaryFinder backed by a name->query mapping loaded
// from a YAML file.
type YAML struct {
	entries map[string]string
}

// LoadYAML reads path as a flat mapping of dataset name to query text.
func LoadYAML(path string) (*YAML, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dictionary %q", path)
	}
	var entries map[string]string
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse dictionary %q", path)
	}
	return &YAML{entries: entries}, nil
}

// Find implements query.DictionaryFinder.
func (y *YAML) Find(name string) (string, bool) {
	q, ok := y.entries[name]
	return q, ok
}
