package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "workert",
	Short: "workert - type-check and run TypeScript in an isolated sandbox",
	Long: `workert accepts TypeScript source text, type-checks it, and runs the
lowered program inside an isolated sandbox with no network access.

The guest program must define an exported async main() function; its return
value becomes the result of the run.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
