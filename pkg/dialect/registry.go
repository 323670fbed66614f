package dialect

import (
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Built-in dialects.
var (
	SQLite = New(core.DialectConfig{
		Name:        "sqlite",
		Placeholder: core.PlaceholderQuestion,
	})
	Postgres = New(core.DialectConfig{
		Name:        "postgres",
		Placeholder: core.PlaceholderDollar,
		ReadOnlyTx:  true,
	})
)

func init() {
	Register(SQLite)
	Register(Postgres)
}

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Register registers a dialect in the global registry.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
