package main

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/datasource"
	"github.com/aadamsx/josson/internal/dictsrc"
	"github.com/aadamsx/josson/internal/query"
)

// fileConfig is the shape of a "josson.toml" config file, grounded on
// aidanlsb-raven's use of github.com/BurntSushi/toml for its own CLI
// config. Any flag the CLI also exposes overrides the matching field here.
type fileConfig struct {
	Data       string `toml:"data"`
	XML        bool   `toml:"xml"`
	DebugLevel string `toml:"debug_level"`
	BundleDir  string `toml:"bundle_dir"`

	Dictionary struct {
		Kind string `toml:"kind"` // "yaml" or "toml"
		Path string `toml:"path"`
	} `toml:"dictionary"`

	Datasource struct {
		Kind string `toml:"kind"` // "postgres" or "sqlite"
		DSN  string `toml:"dsn"`
	} `toml:"datasource"`
}

// loadFileConfig reads and decodes path, returning an empty fileConfig if
// path does not exist, so callers can treat "no config file" as the
// all-defaults case rather than an error.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %q", path)
	}
	return cfg, nil
}

// resolverSources builds the DictionaryFinder/DataFinder pair described by
// c's "dictionary"/"datasource" tables, for FillInPlaceholderWithResolver
// and EvaluateQueryWithResolver. Either or both may be nil when the
// corresponding table is absent from the config file.
func (c fileConfig) resolverSources() (query.DictionaryFinder, query.DataFinder, error) {
	var dict query.DictionaryFinder
	switch c.Dictionary.Kind {
	case "":
	case "yaml":
		y, err := dictsrc.LoadYAML(c.Dictionary.Path)
		if err != nil {
			return nil, nil, err
		}
		dict = y.Find
	case "toml":
		tm, err := dictsrc.LoadTOML(c.Dictionary.Path)
		if err != nil {
			return nil, nil, err
		}
		dict = tm.Find
	default:
		return nil, nil, errors.Errorf("unknown dictionary kind %q", c.Dictionary.Kind)
	}

	var data query.DataFinder
	switch c.Datasource.Kind {
	case "":
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.Datasource.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect postgres datasource")
		}
		data = datasource.NewPostgres(pool).Find
	case "sqlite":
		s, err := datasource.OpenSQLite(c.Datasource.DSN)
		if err != nil {
			return nil, nil, err
		}
		data = s.Find
	default:
		return nil, nil, errors.Errorf("unknown datasource kind %q", c.Datasource.Kind)
	}
	return dict, data, nil
}
