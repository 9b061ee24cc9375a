package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aadamsx/josson/internal/funcs"
)

// configCmd prints the resolved configuration and exits.
func configCmd(args []string) error {
	dataPath := *dataFlag
	if dataPath == "" {
		dataPath = cfg.Data
	}
	fmt.Print(configText(dataPath, cfg, funcs.Builtins()))
	return nil
}

// configText renders the resolved configuration as text; split out from
// configCmd so it can be golden-tested without capturing stdout.
func configText(dataPath string, c fileConfig, cat funcs.Catalog) string {
	names := make([]string, 0, len(cat))
	for name := range cat {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "data: %s\n", dataPath)
	fmt.Fprintf(&b, "xml: %t\n", c.XML)
	debugLevel := c.DebugLevel
	if debugLevel == "" {
		debugLevel = "(disabled)"
	}
	fmt.Fprintf(&b, "debug_level: %s\n", debugLevel)
	dict := c.Dictionary.Kind
	if dict == "" {
		dict = "(none)"
	} else {
		dict = fmt.Sprintf("%s %s", dict, c.Dictionary.Path)
	}
	fmt.Fprintf(&b, "dictionary: %s\n", dict)
	src := c.Datasource.Kind
	if src == "" {
		src = "(none)"
	} else {
		src = fmt.Sprintf("%s %s", src, c.Datasource.DSN)
	}
	fmt.Fprintf(&b, "datasource: %s\n", src)
	bundleDir := c.BundleDir
	if bundleDir == "" {
		bundleDir = "(none)"
	}
	fmt.Fprintf(&b, "bundle_dir: %s\n", bundleDir)
	fmt.Fprintf(&b, "functions (%d): %s\n", len(names), strings.Join(names, ", "))
	return b.String()
}
