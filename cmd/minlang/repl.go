package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/minlang/pkgs/compilation"
)

const (
	blue  = "\033[34m"
	green = "\033[32m"
	reset = "\033[0m"
)

func newReplCommand(cfg Config) *cobra.Command {
	cacheDir := cfg.Cache
	noColor := cfg.NoColor
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive minlang session",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(cacheDir, noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache", cfg.Cache, "Directory for the binding-result cache (empty disables caching)")
	cmd.Flags().BoolVar(&noColor, "no-color", cfg.NoColor, "Disable ANSI coloring of REPL banners")
	return cmd
}

// runRepl mirrors cyi/main.cpp's submission loop: text accumulates across
// lines until it parses cleanly, meta-commands toggle display flags, and
// #reset drops both the Compilation chain and the variable store.
func runRepl(cacheDir string, noColor bool) {
	var cache *compilation.Cache
	if cacheDir != "" {
		cache = compilation.NewCache(cacheDir)
	}

	promptColor, bannerColor, resetColor := green, blue, reset
	if noColor {
		promptColor, bannerColor, resetColor = "", "", ""
	}

	scanner := bufio.NewScanner(os.Stdin)
	var textBuilder strings.Builder
	var showTree, showProgram, showBoundTree bool
	var previous *compilation.Compilation

	for {
		if textBuilder.Len() == 0 {
			fmt.Print(promptColor + ">> " + resetColor)
		} else {
			fmt.Print(promptColor + "- " + resetColor)
		}

		if !scanner.Scan() {
			return
		}
		input := scanner.Text()
		isBlank := strings.TrimSpace(input) == ""

		if textBuilder.Len() == 0 {
			switch input {
			case "":
				continue
			case "#showTree":
				showTree = !showTree
				fmt.Println(toggleMessage(showTree, "Showing parse trees.", "Not showing parse trees."))
				continue
			case "#showProgram":
				showProgram = !showProgram
				fmt.Println(toggleMessage(showProgram, "Showing program.", "Not showing program."))
				continue
			case "#showBoundTree":
				showBoundTree = !showBoundTree
				fmt.Println(toggleMessage(showBoundTree, "Showing bound tree.", "Not showing bound tree."))
				continue
			case "#cls":
				fmt.Print("\033[2J\033[H")
				continue
			case "#exit":
				return
			case "#reset":
				previous = nil
				fmt.Println("Session reset.")
				continue
			}
			if strings.HasPrefix(input, "#watch ") {
				watchFile(strings.TrimSpace(strings.TrimPrefix(input, "#watch ")), cache)
				continue
			}
		}

		textBuilder.WriteString(input)
		textBuilder.WriteString("\n")
		text := textBuilder.String()

		comp := compilation.New("<repl>", text, previous)
		if cache != nil {
			comp = comp.WithCache(cache)
		}

		if !isBlank && comp.Diag.HasErrors() && looksIncomplete(comp) {
			// Keep accumulating: an unclosed block reads as "more input
			// needed", not a hard parse failure, the way the REPL waits
			// for a matching brace before re-parsing.
			continue
		}
		textBuilder.Reset()

		if showTree {
			fmt.Println(bannerColor + "Abstract Syntax Tree" + resetColor)
			comp.EmitTree(os.Stdout)
		}
		if showProgram {
			fmt.Println(bannerColor + "Program" + resetColor)
			comp.EmitProgram(os.Stdout)
		}
		if showBoundTree {
			fmt.Println(bannerColor + "Bound Tree" + resetColor)
			comp.EmitBoundTree(os.Stdout)
		}

		value, err := comp.Evaluate(os.Stdin, os.Stdout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Println("Evaluation failed.")
			continue
		}

		previous = comp
		if value != nil {
			fmt.Println()
			fmt.Println(value)
		}
	}
}

func toggleMessage(on bool, onMsg, offMsg string) string {
	if on {
		return onMsg
	}
	return offMsg
}

// looksIncomplete reports whether the current submission's diagnostics
// are the kind a REPL should read as "type more", rather than a real
// error: every diagnostic mentions "expected", as the parser's
// missing-token reports (e.g. an unclosed brace at end-of-input) do.
func looksIncomplete(comp *compilation.Compilation) bool {
	for _, d := range comp.Diag.Items() {
		if !strings.Contains(d.Message, "expected") {
			return false
		}
	}
	return true
}

// watchFile re-runs the given file's compilation every time it changes on
// disk. It blocks until the watched file is removed or the process is
// interrupted; it installs no signal handler, so ctrl-C ends the whole
// process rather than returning to the REPL prompt.
func watchFile(path string, cache *compilation.Cache) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}

	runOnce := func() {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			return
		}
		comp := compilation.New(path, string(content), nil)
		if cache != nil {
			comp = comp.WithCache(cache)
		}
		if _, err := comp.Evaluate(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Printf("Watching %s (ctrl-C to stop)\n", path)
	runOnce()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				runOnce()
			}
			if event.Op&fsnotify.Remove != 0 {
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}
