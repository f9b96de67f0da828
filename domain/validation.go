package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Validation reasons, worded as they appear next to the field.
const (
	ReasonRequired    = "Required"
	ReasonPositive    = "Must be a positive number"
	ReasonNonNegative = "Must be at least 0"
	ReasonNotANumber  = "Must be a number"
)

type ValidationError struct {
	Field  Field  `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors holds at most one error per field.
type ValidationErrors map[Field]ValidationError

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[Field(f)].Error())
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Reasons flattens the errors into a field name to reason map.
func (e ValidationErrors) Reasons() map[string]string {
	out := make(map[string]string, len(e))
	for f, v := range e {
		out[string(f)] = v.Reason
	}
	return out
}
