package main

import (
	"fmt"
	"os"

	"github.com/example/milestones/internal/cli"
	"github.com/example/milestones/internal/version"
)

func main() {
	rootCmd := cli.RootCmd(version.String())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
