package runlog

import (
	"errors"
	"fmt"
)

// ErrMissingInput is matched by every *MissingInputError.
var ErrMissingInput = errors.New("missing input")

// MissingInputError reports a required input file or run log field that is
// absent. It aborts report generation.
type MissingInputError struct {
	Kind string // "file" or "field"
	Name string
	Path string
}

func (e *MissingInputError) Error() string {
	if e.Kind == "field" {
		return fmt.Sprintf("missing required field %q in %s", e.Name, e.Path)
	}
	return fmt.Sprintf("file %s not found", e.Path)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

func missingFile(path string) error {
	return &MissingInputError{Kind: "file", Name: path, Path: path}
}
