package main

import (
	"fmt"

	"github.com/aadamsx/josson/internal/bundle"
	"github.com/aadamsx/josson/internal/node"
)

// bundleCmd exports the loaded dataset to a snapshot, or imports one and
// prints it back out, modeled on mb0-daql's cmd/daql/mig.go subcommands.
func bundleCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: josson bundle <export|import> [path]")
	}
	path := cfg.BundleDir
	if len(args) > 1 {
		path = args[1]
	}
	if path == "" {
		return fmt.Errorf("usage: josson bundle <export|import> <path> (or set bundle_dir in josson.toml)")
	}
	switch sub := args[0]; sub {
	case "export":
		e, err := loadEngine()
		if err != nil {
			return err
		}
		d := bundle.FromRegistry(e.Reg)
		defer d.Close()
		if err := bundle.Write(path, d); err != nil {
			return err
		}
		fmt.Printf("wrote %d dataset(s) to %s\n", len(d.Entries), path)
		return nil
	case "import":
		d, err := bundle.Read(path)
		if err != nil {
			return err
		}
		defer d.Close()
		for name, n := range d.Entries {
			fmt.Printf("%s: %s\n", name, node.Marshal(n))
		}
		return nil
	default:
		return fmt.Errorf("unknown bundle subcommand: %s", sub)
	}
}
