package models

import "fmt"

// InputError reports a missing or unreadable input file, or a required
// column that is absent from its header.
type InputError struct {
	Path   string
	Column string
	Err    error
}

func (e *InputError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("input %s: missing required column %q", e.Path, e.Column)
	case e.Err != nil:
		return fmt.Sprintf("input %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("input %s: unusable", e.Path)
	}
}

func (e *InputError) Unwrap() error { return e.Err }

// DataFormatError reports a required field that cannot be parsed.
type DataFormatError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d: invalid %s %q", e.Row, e.Field, e.Value)
}

func (e *DataFormatError) Unwrap() error { return e.Err }
