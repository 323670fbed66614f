package api

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// Query parameter names.
const (
	paramFromSDKs      = "from_sdks"
	paramToSDKs        = "to_sdks"
	paramFromSDK       = "from_sdk"
	paramToSDK         = "to_sdk"
	paramOtherFromSDKs = "other_from_sdks"
	paramOtherToSDKs   = "other_to_sdks"
	paramCount         = "count"
	paramCursor        = "cursor"
	paramDirection     = "direction"
)

var (
	numbersParams = []string{paramFromSDKs, paramToSDKs}
	appsParams    = []string{
		paramFromSDK, paramOtherFromSDKs, paramToSDK, paramOtherToSDKs,
		paramCount, paramCursor, paramDirection,
	}
)

// params is a decoded query string that remembers the order in which
// parameter names first appeared. Only '&' separates pairs, so cursors
// may carry an unescaped ';'.
type params struct {
	names  []string
	values url.Values
}

func parseParams(rawQuery string) params {
	p := params{values: url.Values{}}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		if _, seen := p.values[key]; !seen {
			p.names = append(p.names, key)
		}
		p.values[key] = append(p.values[key], value)
	}
	return p
}

// value returns the first non-empty value of name.
func (p params) value(name string) string {
	for _, v := range p.values[name] {
		if v != "" {
			return v
		}
	}
	return ""
}

// list returns the non-empty values of name.
func (p params) list(name string) []string {
	var out []string
	for _, v := range p.values[name] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (p params) has(name string) bool {
	return p.value(name) != ""
}

// idParam is an SDK id parameter whose value parsed. list is false for the
// scalar from_sdk and to_sdk.
type idParam struct {
	name string
	ids  []int64
	list bool
}

// checker collects request problems by group.
type checker struct {
	unrecognized []string
	missing      []missingParam
	invalid      []invalidParam
	misused      []misusedParam
	ids          []idParam
}

func newChecker(p params, known []string) *checker {
	c := &checker{}
	for _, name := range p.names {
		if !slices.Contains(known, name) {
			c.unrecognized = append(c.unrecognized, name)
		}
	}
	return c
}

// id parses a scalar id parameter. It reports false when the parameter is
// unset or invalid.
func (c *checker) id(p params, name string) (int64, bool) {
	raw := p.value(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.invalid = append(c.invalid, invalidParam{name: name, rule: ruleInteger})
		return 0, false
	}
	c.ids = append(c.ids, idParam{name: name, ids: []int64{id}})
	return id, true
}

// idList parses a repeated id parameter. rule decides how a bad value is
// reported.
func (c *checker) idList(p params, name string, rule invalidRule) ([]int64, bool) {
	var ids []int64
	var bad []string
	for _, raw := range p.list(name) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			bad = append(bad, raw)
			continue
		}
		ids = append(ids, id)
	}
	if len(bad) > 0 {
		c.invalid = append(c.invalid, invalidParam{name: name, rule: rule, values: bad})
		return nil, false
	}
	if len(ids) > 0 {
		c.ids = append(c.ids, idParam{name: name, ids: ids, list: true})
	}
	return ids, true
}

// errors returns the collected problems, group by group.
func (c *checker) errors() ValidationErrors {
	var errs ValidationErrors
	if len(c.unrecognized) > 0 {
		errs = append(errs, Error{
			Message:    unrecognizedMessage(c.unrecognized),
			Code:       CodeUnrecognizedField,
			Parameters: c.unrecognized,
		})
	}
	if len(c.missing) > 0 {
		names := make([]string, len(c.missing))
		for i, m := range c.missing {
			names[i] = m.name
		}
		errs = append(errs, Error{
			Message:    missingMessage(c.missing),
			Code:       CodeMissingField,
			Parameters: names,
		})
	}
	if len(c.invalid) > 0 {
		names := make([]string, len(c.invalid))
		var diagnostics map[string]any
		for i, inv := range c.invalid {
			names[i] = inv.name
			if inv.rule == ruleIntegerList {
				if diagnostics == nil {
					diagnostics = map[string]any{}
				}
				diagnostics[inv.name] = inv.values
			}
		}
		errs = append(errs, Error{
			Message:     invalidMessage(c.invalid),
			Code:        CodeInvalidValue,
			Parameters:  names,
			Diagnostics: diagnostics,
		})
	}
	if len(c.misused) > 0 {
		names := make([]string, len(c.misused))
		for i, m := range c.misused {
			names[i] = m.name
		}
		errs = append(errs, Error{
			Message:    misusedMessage(c.misused),
			Code:       CodeMisusedParameter,
			Parameters: names,
		})
	}
	return errs
}

// numbersQuery is a parsed /sdk-compmatrix/numbers request.
type numbersQuery struct {
	sources      []int64
	destinations []int64
}

func parseNumbersQuery(p params) (numbersQuery, *checker) {
	c := newChecker(p, numbersParams)
	var q numbersQuery
	q.sources, _ = c.idList(p, paramFromSDKs, ruleIntegerList)
	q.destinations, _ = c.idList(p, paramToSDKs, ruleIntegerList)
	return q, c
}

func parseAppsQuery(p params) (core.CellRequest, *checker) {
	c := newChecker(p, appsParams)

	if !p.has(paramCount) {
		c.missing = append(c.missing, missingParam{name: paramCount})
	}
	if !p.has(paramCursor) && p.has(paramDirection) {
		c.missing = append(c.missing, missingParam{name: paramCursor, requiredWith: paramDirection})
	}
	if !p.has(paramDirection) && p.has(paramCursor) {
		c.missing = append(c.missing, missingParam{name: paramDirection, requiredWith: paramCursor})
	}

	var req core.CellRequest
	fromID, fromOK := c.id(p, paramFromSDK)
	otherFrom, _ := c.idList(p, paramOtherFromSDKs, ruleInteger)
	toID, toOK := c.id(p, paramToSDK)
	otherTo, _ := c.idList(p, paramOtherToSDKs, ruleInteger)

	if raw := p.value(paramCount); raw != "" {
		count, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			c.invalid = append(c.invalid, invalidParam{name: paramCount, rule: ruleInteger})
		case count < 1:
			c.invalid = append(c.invalid, invalidParam{name: paramCount, rule: rulePositive})
		default:
			req.Count = count
		}
	}
	if raw := p.value(paramCursor); raw != "" {
		cursor, err := core.ParseCursor(raw)
		if err != nil {
			c.invalid = append(c.invalid, invalidParam{name: paramCursor, rule: ruleCursor})
		} else {
			req.Cursor = &cursor
		}
	}
	if raw := p.value(paramDirection); raw != "" {
		dir, err := core.ParseDirection(raw)
		if err != nil {
			c.invalid = append(c.invalid, invalidParam{name: paramDirection, rule: ruleDirection})
		} else {
			req.Direction = dir
		}
	}

	if p.has(paramFromSDK) && p.has(paramOtherFromSDKs) {
		c.misused = append(c.misused, misusedParam{name: paramOtherFromSDKs, partner: paramFromSDK})
	}
	if p.has(paramToSDK) && p.has(paramOtherToSDKs) {
		c.misused = append(c.misused, misusedParam{name: paramOtherToSDKs, partner: paramToSDK})
	}

	req.Source = resolveSelector(fromID, fromOK, otherFrom)
	req.Destination = resolveSelector(toID, toOK, otherTo)
	return req, c
}

// resolveSelector picks the named SDK when one was given and the "(none)"
// bucket over others otherwise.
func resolveSelector(id int64, ok bool, others []int64) core.Selector {
	if ok {
		return core.Specific(id)
	}
	return core.NoneOf(others)
}
