package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/syntax"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an alpha expression and print its AST",
	Long: `Parse reads an alpha expression from -e, a file argument, or stdin,
and prints its parsed abstract syntax tree.

If parsing fails, the error position and message are printed and the
command exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "expression", "e", "", "parse this expression instead of reading a file/stdin")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readExpressionInput(parseExpr, args)
	if err != nil {
		return err
	}

	node, err := syntax.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Println(node.String())
	return nil
}

// readExpressionInput resolves an expression from, in priority order: the
// -e flag, a file argument, or stdin.
func readExpressionInput(exprFlag string, args []string) (string, error) {
	if exprFlag != "" {
		return exprFlag, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
