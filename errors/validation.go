package errors

import (
	// Go Internal Packages
	"fmt"
	"strings"
)

// ValidationErrors collects field-level problems so a caller gets every
// bad field in one response instead of one at a time.
type ValidationErrors struct {
	fields []string
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{}
}

// Add registers a problem with the named field.
func (v *ValidationErrors) Add(field, message string) {
	v.fields = append(v.fields, fmt.Sprintf("%s %s", field, message))
}

// Err returns nil when no problems were added, otherwise a single
// error joining every registered field problem.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(v.fields, "; "))
}
