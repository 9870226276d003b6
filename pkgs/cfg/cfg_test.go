package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/cfg"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/lowerer"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
)

func lowerFunctionBody(t *testing.T, text string) *binder.BlockStatement {
	t.Helper()
	src := source.New("test", text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	global := binder.BindGlobalScope(nil, src, diag, unit)
	require.False(t, diag.HasErrors())
	program := binder.BindProgram(global, src, diag)
	require.False(t, diag.HasErrors())
	require.Len(t, program.Functions, 1)
	for _, body := range program.Functions {
		return lowerer.Lower(body)
	}
	return nil
}

func TestAllPathsReturnTrueWhenEveryBranchReturns(t *testing.T) {
	body := lowerFunctionBody(t, `
		function f(n: int): int {
			if n > 0 {
				return 1
			} else {
				return 0
			}
		}
		f(1)
	`)
	require.True(t, cfg.AllPathsReturn(body))
}

func TestAllPathsReturnFalseWhenElseBranchIsMissing(t *testing.T) {
	body := lowerFunctionBody(t, `
		function f(n: int): int {
			if n > 0 {
				return 1
			}
		}
		f(1)
	`)
	require.False(t, cfg.AllPathsReturn(body))
}

func TestAllPathsReturnTrueForUnconditionalTrailingReturn(t *testing.T) {
	body := lowerFunctionBody(t, `
		function f(n: int): int {
			return n * 2
		}
		f(1)
	`)
	require.True(t, cfg.AllPathsReturn(body))
}

func TestBuildPrunesUnreachableBlocks(t *testing.T) {
	body := lowerFunctionBody(t, `
		function f(n: int): int {
			return n
			n + 1
		}
		f(1)
	`)
	graph := cfg.Build(body)
	require.NotNil(t, graph.Start)
	require.NotNil(t, graph.End)
	require.NotEmpty(t, graph.Blocks)
	// Start, the block ending in the return, and End; the unreachable
	// "n + 1" block is pruned.
	require.Len(t, graph.Blocks, 3)
}
