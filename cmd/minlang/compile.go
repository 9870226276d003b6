package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/minlang/pkgs/compilation"
)

// newCompileCommand wires a stdlib flag.FlagSet into the cobra tree,
// the way cmd/devcmd/main.go parses its own flags directly rather than
// going through cobra's pflag machinery. Cobra only supplies routing
// here; flag parsing stays in the teacher's idiom.
func newCompileCommand(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:                "compile <path>",
		Short:              "Compile and run a minlang source file",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := flag.NewFlagSet("compile", flag.ContinueOnError)
			cacheDir := fs.String("cache", cfg.Cache, "Directory for the binding-result cache (empty disables caching)")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if fs.NArg() < 1 {
				return fmt.Errorf("usage: minlang compile [-cache dir] <path>")
			}

			path := fs.Arg(0)
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading file: %w", err)
			}

			comp := compilation.New(path, string(content), nil)
			if *cacheDir != "" {
				comp = comp.WithCache(compilation.NewCache(*cacheDir))
			}

			value, err := comp.Evaluate(os.Stdin, os.Stdout)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if value != nil {
				fmt.Println()
			}
			return nil
		},
	}
}
