package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmkal/workert/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Check and run a TypeScript file through the sandbox",
	Long: `Type-check a TypeScript file and, if the check passes, run it in the
sandbox. Reads from stdin when no file is given or the file is "-".

Examples:
  workert run snippet.ts
  echo 'export async function main() { return 1 + 1; }' | workert run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func readSource(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	source, err := readSource(args)
	if err != nil {
		return err
	}

	play, err := buildPlayground(cfg, log)
	if err != nil {
		return err
	}

	status, body := play.Run(cmd.Context(), source)
	fmt.Println(string(body))

	if status != http.StatusOK {
		os.Exit(1)
	}
	return nil
}
