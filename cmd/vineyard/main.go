package main

import (
	"fmt"
	"os"

	"github.com/ignatij/vineyard/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "vineyard",
	Short:        "Grape farm planning: timelines, layouts and seasonal activities",
	SilenceUsage: true,
}

func main() {
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
