package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "minlang",
		Short:         "Compile and run minlang programs",
		SilenceErrors: true,
	}

	root.AddCommand(newCompileCommand(cfg))
	root.AddCommand(newReplCommand(cfg))
	root.AddCommand(newFmtCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
