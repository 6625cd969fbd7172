// distinct-bench measures the accuracy of the heavy distinct hitter sketches
// against exact ground truth on synthetic streams.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "distinct-bench",
		Short:         "Benchmark harness for the distinct sketches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAccuracyCommand())

	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
