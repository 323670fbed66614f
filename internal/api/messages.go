package api

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cursorFormat describes the cursor syntax to clients.
const cursorFormat = `"<app name>;<app seller name>"`

func quote(params []string) []string {
	quoted := make([]string, len(params))
	for i, p := range params {
		quoted[i] = `"` + p + `"`
	}
	return quoted
}

// series renders quoted parameter names as an English list, with a serial
// comma from three items on.
func series(params []string) string {
	return english.OxfordWordSeries(quote(params), "and")
}

func paramNoun(n int) string {
	return english.PluralWord(n, "parameter", "")
}

func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

func agree(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func unrecognizedMessage(params []string) string {
	return fmt.Sprintf("Unrecognized %s, %s.", paramNoun(len(params)), series(params))
}

// missingParam is a required parameter that was not given. requiredWith
// names the parameter whose presence made it required, if any.
type missingParam struct {
	name         string
	requiredWith string
}

func missingMessage(missing []missingParam) string {
	n := len(missing)
	names := make([]string, n)
	for i, m := range missing {
		names[i] = m.name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Required %s, %s, %s missing.", paramNoun(n), series(names), agree(n, "is", "are"))
	for _, m := range missing {
		if m.requiredWith == "" {
			continue
		}
		subject := "It"
		if n > 1 {
			subject = `"` + m.name + `"`
		}
		fmt.Fprintf(&sb, ` %s is required when the "%s" parameter has a value.`, subject, m.requiredWith)
	}
	return sb.String()
}

// invalidRule is the constraint a parameter value broke.
type invalidRule int

const (
	ruleInteger invalidRule = iota
	ruleIntegerList
	rulePositive
	ruleCursor
	ruleDirection
)

// invalidParam is a parameter with a bad value. values holds the rejected
// raw values of list parameters.
type invalidParam struct {
	name   string
	rule   invalidRule
	values []string
}

func (p invalidParam) isInteger() bool {
	return p.rule == ruleInteger || p.rule == ruleIntegerList
}

func invalidMessage(params []invalidParam) string {
	single := len(params) == 1
	names := make([]string, len(params))
	var ints []invalidParam
	for i, p := range params {
		names[i] = p.name
		if p.isInteger() {
			ints = append(ints, p)
		}
	}

	var parts []string
	switch {
	case !single:
		parts = append(parts, fmt.Sprintf("Parameters, %s, have invalid values.", series(names)))
	case params[0].rule == ruleIntegerList:
		parts = append(parts, fmt.Sprintf("Parameter, %s, has invalid values.", series(names)))
	default:
		parts = append(parts, fmt.Sprintf("Parameter, %s, has an invalid value.", series(names)))
	}

	switch {
	case len(ints) == 1 && ints[0].rule == ruleInteger && single:
		parts = append(parts, "It must be an integer.")
	case len(ints) == 1 && ints[0].rule == ruleInteger:
		parts = append(parts, fmt.Sprintf(`The value of "%s" must be an integer.`, ints[0].name))
	case len(ints) > 0:
		intNames := make([]string, len(ints))
		for i, p := range ints {
			intNames[i] = p.name
		}
		parts = append(parts, fmt.Sprintf("Values of %s must be integers.", series(intNames)))
	}

	for _, p := range params {
		switch p.rule {
		case rulePositive:
			if single {
				parts = append(parts, "It must be greater than zero.")
			} else {
				parts = append(parts, fmt.Sprintf(`The value of "%s" must be greater than zero.`, p.name))
			}
		case ruleCursor:
			if single {
				parts = append(parts, "The correct format is "+cursorFormat+".")
			} else {
				parts = append(parts, fmt.Sprintf(`The correct format for the value of "%s" is %s.`, p.name, cursorFormat))
			}
		case ruleDirection:
			if single {
				parts = append(parts, `It must only be either "previous" or "next".`)
			} else {
				parts = append(parts, fmt.Sprintf(`The value of "%s" must only be either "previous" or "next".`, p.name))
			}
		}
	}
	return strings.Join(parts, " ")
}

// misusedParam is a parameter given together with a partner that rules
// it out.
type misusedParam struct {
	name    string
	partner string
}

func misusedMessage(misused []misusedParam) string {
	n := len(misused)
	names := make([]string, n)
	partners := make([]string, n)
	for i, m := range misused {
		names[i] = m.name
		partners[i] = m.partner
	}

	msg := fmt.Sprintf("%s, %s, must only be specified if the %s %s %s unspecified",
		capitalize(paramNoun(n)), series(names), series(partners), paramNoun(n), agree(n, "is", "are"))
	if n > 1 {
		return msg + ", respectively."
	}
	return msg + "."
}

func unknownIDsMessage(params []string, numUnknown int) string {
	n := len(params)
	return fmt.Sprintf("%s, %s, %s %s not refer to an SDK.",
		capitalize(paramNoun(n)), series(params), agree(n, "has", "have"),
		agree(numUnknown, "an ID that does", "IDs that do"))
}
