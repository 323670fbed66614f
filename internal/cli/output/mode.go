// Package output renders CLI results for terminals, for scripts and
// agents (markdown), and as JSON.
package output

import (
	"fmt"
	"slices"
)

// Mode selects how results are rendered.
type Mode string

// OutputMode is the name used by callers that spell the type out.
type OutputMode = Mode

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists every accepted mode.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON}

// ParseMode parses a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", fmt.Errorf("unknown output mode %q (want auto, text, markdown or json)", s)
	}
	return m, nil
}
