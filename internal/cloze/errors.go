package cloze

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCloze         = errors.New("malformed cloze")
	ErrInvalidBlankDefinition = errors.New("invalid blank definition")
	ErrUnknownBlank           = errors.New("unknown blank")
	ErrUnknownHighlight       = errors.New("unknown highlight")
)

// MalformedClozeError reports a structural mismatch between the passage
// markup and the blank definitions or media table. Offset is the byte offset
// of the offending markup in the resolved passage.
type MalformedClozeError struct {
	Reason string
	Offset int
}

func (e *MalformedClozeError) Error() string {
	return fmt.Sprintf("malformed cloze at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedClozeError) Is(target error) bool { return target == ErrMalformedCloze }

// InvalidBlankDefinitionError is returned when a blank is built from a
// definition without accepted answers.
type InvalidBlankDefinitionError struct {
	BlankID string
	Reason  string
}

func (e *InvalidBlankDefinitionError) Error() string {
	return fmt.Sprintf("invalid blank definition for %s: %s", e.BlankID, e.Reason)
}

func (e *InvalidBlankDefinitionError) Is(target error) bool {
	return target == ErrInvalidBlankDefinition
}
