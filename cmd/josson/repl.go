package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/aadamsx/josson/internal/node"
)

var replMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// replCmd runs a read-eval-print loop over the loaded dataset, modeled on
// mb0-daql's cmd/daql/repl.go.
func replCmd(args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}
	interactive := isatty.IsTerminal(os.Stdout.Fd())
	if interactive {
		fmt.Println(replMuted.Render(fmt.Sprintf("%d dataset(s) loaded, Ctrl-D to quit", len(e.Reg.ToObject().Members()))))
	}
	lin := liner.NewLiner()
	defer lin.Close()
	lin.SetMultiLineMode(true)
	errColor := color.New(color.FgRed)
	okColor := color.New(color.FgGreen)
	if !interactive {
		errColor.DisableColor()
		okColor.DisableColor()
	}
	var got string
	for i := 0; ; i++ {
		if i == 0 {
			got, err = lin.PromptWithSuggestion("> ", "", 0)
		} else {
			got, err = lin.Prompt("> ")
		}
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			log.Printf("unexpected error reading prompt: %v", err)
			continue
		}
		if got == "" {
			continue
		}
		lin.AppendHistory(got)
		result, err := e.EvaluateQuery(got)
		if err != nil {
			errColor.Printf("error: %v\n\n", err)
			continue
		}
		okColor.Printf("= %s\n\n", node.Marshal(result))
	}
}
