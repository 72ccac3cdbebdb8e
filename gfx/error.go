package gfx

import (
	"fmt"
	"strings"
)

// ShaderError is returned when the driver rejects a shader or program.
// Log holds the driver supplied diagnostic text.
type ShaderError struct {
	Stage string // "compile" or "link"
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("shader %s failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// ErrorSet defines a list of one or more errors and is itself an error.
type ErrorSet []error

func (e ErrorSet) Len() int {
	return len(e)
}

func (e *ErrorSet) Append(args ...error) {
	for _, err := range args {
		if err != nil {
			*e = append(*e, err)
		}
	}
}

// Err returns nil if the set is empty, or the set itself otherwise.
func (e ErrorSet) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ErrorSet) Error() string {
	var sb strings.Builder
	for _, err := range e {
		sb.WriteString(err.Error() + "\n")
	}
	return sb.String()
}
