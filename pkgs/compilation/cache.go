package compilation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
)

// CachedDiagnostic is the CBOR-serializable projection of a
// diagnostics.Diagnostic: just enough to report it again without
// re-parsing or re-binding the source that produced it. It omits the
// source text, so it can't reproduce the original's code-snippet
// rendering — only the stage, message, and position.
type CachedDiagnostic struct {
	Kind    int    `cbor:"kind"`
	Message string `cbor:"message"`
	Line    int    `cbor:"line"`
	Column  int    `cbor:"column"`
}

func (d CachedDiagnostic) String() string {
	return fmt.Sprintf("%s: %s (line %d, col %d) [cached]", diagnostics.Kind(d.Kind), d.Message, d.Line, d.Column)
}

// cacheEntry is what gets written to disk per source hash.
type cacheEntry struct {
	Diagnostics []CachedDiagnostic `cbor:"diagnostics"`
}

// Cache stores bind-time diagnostics keyed by blake2b content hash (see
// source.Text.Hash), so re-submitting identical source that failed to
// bind — common in a REPL session or a watch-mode rebuild loop — reports
// the cached diagnostics without binding again. Source that bound cleanly
// is bound again on every submission.
type Cache struct {
	dir string
}

// NewCache opens a cache rooted at dir, creating it if necessary. An
// empty dir disables persistence; Get always misses and Put is a no-op.
func NewCache(dir string) *Cache {
	if dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	return &Cache{dir: dir}
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.dir, hash+".cbor")
}

// Get looks up a previous result for the given source hash: the
// diagnostics it produced (empty means it compiled cleanly) and whether
// the hash was found at all.
func (c *Cache) Get(hash string) ([]CachedDiagnostic, bool) {
	if c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.path(hash))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := cbor.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return entry.Diagnostics, true
}

// Put records the diagnostics produced by binding the source at hash.
func (c *Cache) Put(hash string, bag *diagnostics.Bag) {
	if c.dir == "" {
		return
	}
	entry := cacheEntry{}
	for _, d := range bag.Items() {
		line, col := d.Location.LineColumn()
		entry.Diagnostics = append(entry.Diagnostics, CachedDiagnostic{
			Kind:    int(d.Kind),
			Message: d.Message,
			Line:    line,
			Column:  col,
		})
	}
	data, err := cbor.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path(hash), data, 0o644)
}
