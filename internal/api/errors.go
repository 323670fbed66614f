package api

import (
	"strings"
)

// Code classifies a request problem.
type Code string

// Problem codes reported in the "code" field of an error object.
const (
	CodeUnrecognizedField Code = "UNRECOGNIZED_FIELD"
	CodeMissingField      Code = "MISSING_FIELD"
	CodeInvalidValue      Code = "INVALID_PARAMETER_VALUE"
	CodeMisusedParameter  Code = "MISUSED_PARAMETER"
	CodeUnknownID         Code = "UNKNOWN_ID"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Error is one entry of an error response.
type Error struct {
	Message     string         `json:"message"`
	Code        Code           `json:"code"`
	Parameters  []string       `json:"parameters"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

// ValidationErrors is the collected list of problems with a request.
type ValidationErrors []Error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, " ")
}
