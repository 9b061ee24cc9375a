package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/query"
)

// loadEngine builds an Engine from *dataFlag, falling back to the loaded
// config file's "data" path, or an empty registry if neither is set.
func loadEngine() (*query.Engine, error) {
	cat := funcs.Builtins()
	path := *dataFlag
	if path == "" {
		path = cfg.Data
	}
	if path == "" {
		return query.NewEngine(cat), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read data %q", path)
	}
	obj, err := node.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse data %q", path)
	}
	return query.NewEngineFromObject(obj, cat)
}
