package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/analyzer"
	"github.com/stratoquant/alphaql/syntax"
)

var analyzeExpr string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Report the fields, functions, and lookback windows an expression uses",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeExpr, "expression", "e", "", "analyze this expression instead of reading a file/stdin")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	src, err := readExpressionInput(analyzeExpr, args)
	if err != nil {
		return err
	}

	node, err := syntax.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	result := analyzer.Analyze(node)

	fmt.Println("fields:")
	for _, f := range result.SortedFields() {
		fmt.Printf("  %s\n", f)
	}

	fmt.Println("functions:")
	for _, f := range result.SortedFunctions() {
		fmt.Printf("  %s\n", f)
	}

	fmt.Println("windows:")
	for _, field := range result.SortedFields() {
		windows, ok := result.Windows[field]
		if !ok {
			continue
		}
		for n := range windows {
			fmt.Printf("  %s: %d\n", field, n)
		}
	}
	return nil
}
