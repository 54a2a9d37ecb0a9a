package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the workert version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("workert", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
