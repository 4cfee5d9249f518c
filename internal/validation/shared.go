package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects per-field validation messages. Cause is the sentinel the
// error unwraps to, so callers can classify it with errors.Is.
type Error struct {
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}
