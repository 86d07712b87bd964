package parser

import (
	"errors"
	"fmt"
)

// Sentinel reasons carried by ParseError.
var (
	// ErrMalformedInstruction indicates a "%...%" block whose keyword
	// is not in InstructionKinds.
	ErrMalformedInstruction = errors.New("malformed instruction")
	// ErrMalformedHeader indicates a bracketed line resembling but not
	// matching "[Adblock Plus <version>]".
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnknownOption indicates a filter option token outside the
	// option catalog.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidUTF8 indicates raw line bytes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// ParseError reports a line that looks like a recognized construct but
// is malformed. It wraps one of the sentinel reasons above, so callers
// can test with errors.Is.
type ParseError struct {
	Line   string // offending line text
	Err    error  // sentinel reason
	Detail string // optional, e.g. the unknown option name
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q in line %q", e.Err, e.Detail, e.Line)
	}
	return fmt.Sprintf("%v in line %q", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }
