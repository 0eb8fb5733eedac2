package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "compareit",
		Short:   "Compare files and folders by content, similarity and schema",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newCompareCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
