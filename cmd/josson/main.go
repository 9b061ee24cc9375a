// Command josson evaluates and merges JSON queries against a dataset,
// either once from the command line or interactively, and can serve the
// same engine over a websocket connection. Its subcommand dispatch is
// modeled directly on mb0-daql's cmd/daql/main.go.
package main

import (
	"flag"
	"fmt"
	"log"
)

const usage = `usage: josson [-data=<path>] [-config=<path>] <command> [<args>]

Configuration flags:

   -data       Path to a JSON file seeding the dataset registry. If not
               set, an empty registry is used.
   -config     Path to a "josson.toml" config file (default XML mode,
               resolver debug level, dictionary/data source connection
               strings, bundle directory). Defaults to "josson.toml" in
               the working directory; missing the default is not an
               error. A -data flag always overrides the file's "data".

Commands
   eval        Evaluate a single query against the loaded dataset
   merge       Merge a template file's placeholders against the dataset
   repl        Run a read-eval-print loop over the loaded dataset
   serve       Serve the engine over a websocket endpoint
   bundle      Export or import a dataset snapshot
   config      Print the resolved configuration and exit

Other commands
   help        Display help message
`

var dataFlag = flag.String("data", "", "path to a JSON file seeding the dataset registry")
var configFlag = flag.String("config", "josson.toml", "path to a josson.toml config file")

// cfg is the config file loaded in main before dispatch; every subcommand
// reads it as fallback configuration for whatever its own flags leave unset.
var cfg fileConfig

func main() {
	flag.Parse()
	log.SetFlags(0)
	var err error
	if cfg, err = loadFileConfig(*configFlag); err != nil {
		log.Fatalf("config error: %+v\n", err)
	}
	args := flag.Args()
	if len(args) == 0 {
		log.Printf("missing command\n\n")
		fmt.Print(usage)
		return
	}
	rest := args[1:]
	switch cmd := args[0]; cmd {
	case "eval":
		err = evalCmd(rest)
	case "merge":
		err = mergeCmd(rest)
	case "repl":
		err = replCmd(rest)
	case "serve":
		err = serveCmd(rest)
	case "bundle":
		err = bundleCmd(rest)
	case "config":
		err = configCmd(rest)
	case "help":
		fmt.Print(usage)
	default:
		log.Printf("unknown command: %s\n\n", cmd)
		fmt.Print(usage)
	}
	if err != nil {
		log.Fatalf("%s error: %+v\n", args[0], err)
	}
}
