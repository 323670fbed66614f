// Package dialect describes the SQL dialects the store can run on and
// rewrites portable queries into each dialect's bind parameter style.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// Dialect wraps a static dialect configuration.
type Dialect struct {
	core.DialectConfig
}

// New creates a dialect from its configuration.
func New(cfg core.DialectConfig) *Dialect {
	return &Dialect{DialectConfig: cfg}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Rebind rewrites every ? placeholder in query into the dialect's style.
// Question marks inside single-quoted string literals are left alone.
func (d *Dialect) Rebind(query string) string {
	if d.Placeholder == core.PlaceholderQuestion {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	index := 0
	inString := false
	for _, r := range query {
		switch {
		case r == '\'':
			inString = !inString
			b.WriteRune(r)
		case r == '?' && !inString:
			index++
			b.WriteString(d.FormatPlaceholder(index))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
