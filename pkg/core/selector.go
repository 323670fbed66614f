package core

import (
	"slices"
	"strconv"
	"strings"
)

type selectorKind int

const (
	// kindSpecific selects exactly one named SDK.
	kindSpecific selectorKind = iota
	// kindNoneOf is the synthetic "(none)" bucket: any SDK other than the
	// ones that have their own row or column.
	kindNoneOf
)

// NoneLabel is the display label of a NoneOf selector.
const NoneLabel = "(none)"

// Selector is a matrix row or column header.
// The zero value is not meaningful; build one with Specific or NoneOf.
type Selector struct {
	kind     selectorKind
	id       int64
	excluded []int64
}

// Specific returns a selector for exactly one SDK.
func Specific(id int64) Selector {
	return Selector{kind: kindSpecific, id: id}
}

// NoneOf returns the "(none)" selector parameterized by the SDKs that
// have their own row or column. The slice is copied.
func NoneOf(excluded []int64) Selector {
	return Selector{kind: kindNoneOf, excluded: slices.Clone(excluded)}
}

// IsSpecific reports whether the selector names a single SDK.
func (s Selector) IsSpecific() bool { return s.kind == kindSpecific }

// ID returns the SDK id of a Specific selector, or 0 for NoneOf.
func (s Selector) ID() int64 { return s.id }

// Excluded returns a copy of the excluded SDK ids of a NoneOf selector.
func (s Selector) Excluded() []int64 { return slices.Clone(s.excluded) }

// Excludes reports whether id is in the exclusion list of a NoneOf selector.
func (s Selector) Excludes(id int64) bool {
	return s.kind == kindNoneOf && slices.Contains(s.excluded, id)
}

// String returns a debugging representation such as "Specific(3)" or
// "NoneOf(1,2)".
func (s Selector) String() string {
	if s.kind == kindSpecific {
		return "Specific(" + strconv.FormatInt(s.id, 10) + ")"
	}
	parts := make([]string, len(s.excluded))
	for i, id := range s.excluded {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "NoneOf(" + strings.Join(parts, ",") + ")"
}

// MissingFrom reports whether at least one of the ids in all is absent
// from listed. It decides whether a "(none)" row or column is needed.
func MissingFrom(listed, all []int64) bool {
	for _, id := range all {
		if !slices.Contains(listed, id) {
			return true
		}
	}
	return false
}
