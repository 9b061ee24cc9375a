package dictsrc

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// TOML is a query.DictionaryFinder backed by a name->query mapping loaded
// from a TOML file.
type TOML struct {
	entries map[string]string
}

// LoadTOML reads path as a flat mapping of dataset name to query text.
func LoadTOML(path string) (*TOML, error) {
	var entries map[string]string
	if _, err := toml.DecodeFile(path, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse dictionary %q", path)
	}
	return &TOML{entries: entries}, nil
}

// Find implements query.DictionaryFinder.
func (t *TOML) Find(name string) (string, bool) {
	q, ok := t.entries[name]
	return q, ok
}
