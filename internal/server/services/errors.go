package services

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
)

// Field error messages returned to API clients.
const (
	MsgBlank    = "This field may not be blank."
	MsgRequired = "This field is required."
	MsgTooLong  = "Ensure this field has no more than %d characters."
)

// ValidationError lists per-field problems with a request. It matches
// common.ErrorValidation under errors.Is.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }
