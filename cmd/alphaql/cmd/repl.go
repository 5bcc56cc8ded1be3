package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/eval"
	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/syntax"
	"github.com/stratoquant/alphaql/value"
)

const replOutputWidth = 100

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop over the configured synthetic panel",
	Long: `Repl starts an interactive session backed by readline (command history,
line editing). Each line is parsed as an expression and evaluated over the
most recent date of the configured synthetic panel.

Enter :quit or press Ctrl-D to exit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	bundle, err := loadBundle()
	if err != nil {
		return fmt.Errorf("building panel: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "alphaql> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "alphaql repl - %d dates, %d symbols loaded. :quit to exit.\n",
		len(bundle.Dates), len(bundle.Symbols))

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":exit" {
			return nil
		}

		if err := replEval(rl, bundle, line); err != nil {
			msg := rosed.Edit(err.Error()).Wrap(replOutputWidth).String()
			fmt.Fprintln(rl.Stderr(), msg)
		}
	}
}

func replEval(rl *readline.Instance, bundle *panel.Bundle, line string) error {
	node, err := syntax.Parse(line)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	date := bundle.Dates[len(bundle.Dates)-1]
	ctx := eval.NewCtx(bundle, date)
	result, err := eval.EvalScalar(reg, ctx, node)
	if err != nil {
		return fmt.Errorf("eval error: %w", err)
	}

	printReplResult(rl, result)
	return nil
}

func printReplResult(rl *readline.Instance, v value.Value) {
	w := rl.Stdout()
	switch v.Kind() {
	case value.Scalar:
		fmt.Fprintln(w, v.Float())
	case value.CrossSection:
		symbols, vec := v.CrossSectionData()
		for i, s := range symbols {
			fmt.Fprintf(w, "%s\t%v\n", s, vec[i])
		}
	default:
		fmt.Fprintln(w, v)
	}
}
