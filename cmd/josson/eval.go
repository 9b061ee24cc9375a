package main

import (
	"fmt"
	"os"

	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/query"
)

func evalCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: josson eval <query>")
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
		lvl, err := parseDebugLevel(cfg.DebugLevel)
		if err != nil {
			return err
		}
		progress = query.NewProgress()
		progress.Level = lvl
	}
	result, err := e.EvaluateQueryWithResolver(args[0], dict, data, progress)
	if progress != nil {
		for _, step := range progress.Steps() {
			fmt.Fprintln(os.Stderr, step)
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(node.Marshal(result))
	return nil
}
