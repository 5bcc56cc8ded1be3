package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/registry"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List every built-in function, its kind, and its accepted arities",
	RunE:  runFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}

func runFunctions(cmd *cobra.Command, args []string) error {
	for _, spec := range reg.List() {
		fmt.Printf("%-16s %-4s %s\n", spec.Name, spec.Kind, formatArity(spec.Arity))
		if spec.Doc != "" {
			fmt.Printf("    %s\n", spec.Doc)
		}
	}
	return nil
}

func formatArity(arity registry.ArgSet) string {
	out := "("
	first := true
	for n := 0; n <= 8; n++ {
		if arity[n] {
			if !first {
				out += ","
			}
			out += fmt.Sprintf("%d", n)
			first = false
		}
	}
	return out + ")"
}
