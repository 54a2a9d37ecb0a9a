package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/mmkal/workert/internal/config"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively check and run TypeScript snippets",
	Long: `Read TypeScript snippets line by line and run each one through the
check-and-run pipeline. A blank line submits the snippet.

Example session:
  ts> export async function main() {
  ...   return 1 + 1;
  ... }
  ...
  {"success":true,"result":2}`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	play, err := buildPlayground(cfg, log)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ts> ",
		HistoryFile:     "/tmp/workert_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("workert repl - blank line runs the snippet, Ctrl+D exits")

	var lines []string
	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				lines = nil
				rl.SetPrompt("ts> ")
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if strings.TrimSpace(input) != "" {
			lines = append(lines, input)
			rl.SetPrompt("... ")
			continue
		}

		if len(lines) == 0 {
			continue
		}

		source := strings.Join(lines, "\n")
		lines = nil
		rl.SetPrompt("ts> ")

		_, body := play.Run(cmd.Context(), source)
		fmt.Println(string(body))
	}
}
