package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/query"
)

func mergeCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: josson merge <template-path>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "read template %q", args[0])
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	dict, data, err := cfg.resolverSources()
	if err != nil {
		return err
	}
	var progress *query.Progress
	if cfg.DebugLevel != "" {
		progress = query.NewProgress()
		if lvl, err := parseDebugLevel(cfg.DebugLevel); err != nil {
			return err
		} else {
			progress.Level = lvl
		}
	}
	var text string
	if cfg.XML {
		text, err = e.FillInXmlPlaceholderWithResolver(string(raw), dict, data, progress)
	} else {
		text, err = e.FillInPlaceholderWithResolver(string(raw), dict, data, progress)
	}
	if progress != nil {
		for _, step := range progress.Steps() {
			fmt.Fprintln(os.Stderr, step)
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func parseDebugLevel(s string) (query.DebugLevel, error) {
	switch s {
	case "value":
		return query.DebugValueOnly, nil
	case "object":
		return query.DebugUpToObject, nil
	case "array":
		return query.DebugUpToArray, nil
	default:
		return 0, fmt.Errorf("unknown debug_level %q, want value|object|array", s)
	}
}
