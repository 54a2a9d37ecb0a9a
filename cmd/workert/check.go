package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmkal/workert/internal/config"
	"github.com/mmkal/workert/internal/diag"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a TypeScript file without running it",
	Long: `Run the compiler frontend over a TypeScript file and print its
diagnostics. Nothing is executed. Exits 1 when the check fails.

Examples:
  workert check snippet.ts
  cat snippet.ts | workert check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	source, err := readSource(args)
	if err != nil {
		return err
	}

	res, err := buildAdapter(cfg).Check(cmd.Context(), source)
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		printDiagnostic(d)
	}

	if !res.Success {
		os.Exit(1)
	}
	fmt.Println("ok")
	return nil
}

func printDiagnostic(d diag.Diagnostic) {
	paint := color.New(color.FgWhite)
	switch d.Category {
	case diag.Error:
		paint = color.New(color.FgRed)
	case diag.Warning:
		paint = color.New(color.FgYellow)
	case diag.Suggestion:
		paint = color.New(color.FgCyan)
	}
	paint.Fprintln(os.Stderr, d.String())
}
