package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
)

// newFmtCommand checks a source file for lexical and syntax diagnostics
// (it does not bind) and rewrites it with
// trailing whitespace trimmed and a single trailing newline. minlang has
// no grammar-aware pretty printer (rebuilding source text from a syntax
// tree is a much larger undertaking than this checker), so formatting is
// deliberately limited to whitespace normalization of already-valid files.
func newFmtCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt <path>",
		Short: "Check a minlang source file and normalize its whitespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading file: %w", err)
			}

			diag := diagnostics.NewBag()
			src := source.New(path, string(content))
			parser.Parse(src, diag)
			if diag.HasErrors() {
				for _, d := range diag.Items() {
					fmt.Fprintln(os.Stderr, d.Error())
				}
				return fmt.Errorf("%s has %d diagnostic(s)", path, diag.Len())
			}

			normalized := normalizeWhitespace(string(content))
			if !write {
				if normalized != string(content) {
					fmt.Printf("%s would be reformatted\n", path)
				}
				return nil
			}
			if normalized == string(content) {
				return nil
			}
			return os.WriteFile(path, []byte(normalized), 0o644)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the normalized result back to the file")
	return cmd
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	result := strings.Join(lines, "\n")
	return strings.TrimRight(result, "\n") + "\n"
}
