package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/avalanchemystery/cmd/cli/generate"
	"github.com/myrjola/avalanchemystery/cmd/cli/img"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(generate.Group)
	rootCmd.AddCommand(generate.Case, generate.Clues, generate.Sequence)
	rootCmd.AddGroup(img.Group)
	rootCmd.AddCommand(img.Generate)
}

var rootCmd = &cobra.Command{
	Use:          "mystery-cli",
	Long:         `Command line utilities for generating Avalanche mystery cases, clues and collectible artwork`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
