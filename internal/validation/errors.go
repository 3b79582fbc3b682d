package validation

import "strings"

// Error carries every message produced by a failed validation, in rule order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "invalid input: " + strings.Join(e.Messages, "; ")
}
