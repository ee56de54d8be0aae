package macho

import (
	"errors"
	"fmt"
)

// An ErrorKind classifies why part of a file could not be decoded.
type ErrorKind int

const (
	// InputUnavailable means the source could not supply the requested bytes.
	InputUnavailable ErrorKind = iota + 1
	// UnrecognizedFormat means a magic number matched no known Mach-O form.
	UnrecognizedFormat
	// MalformedFatEntry means a fat arch entry points outside the file.
	MalformedFatEntry
	// MalformedLoadCommand means a load command's declared size cannot be walked.
	MalformedLoadCommand
)

var (
	ErrInputUnavailable     = errors.New("input unavailable")
	ErrUnrecognizedFormat   = errors.New("unrecognized format")
	ErrMalformedFatEntry    = errors.New("malformed fat entry")
	ErrMalformedLoadCommand = errors.New("malformed load command")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case InputUnavailable:
		return ErrInputUnavailable
	case UnrecognizedFormat:
		return ErrUnrecognizedFormat
	case MalformedFatEntry:
		return ErrMalformedFatEntry
	case MalformedLoadCommand:
		return ErrMalformedLoadCommand
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// FormatError is returned by some operations if the data does
// not have the correct format for an object file.
type FormatError struct {
	Kind ErrorKind
	Off  int64
	Msg  string
	Val  any
	Err  error
}

func (e *FormatError) Error() string {
	msg := e.Kind.String() + ": " + e.Msg
	if e.Val != nil {
		msg += fmt.Sprintf(" '%v'", e.Val)
	}
	msg += fmt.Sprintf(" in record at byte %#x", e.Off)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel of the error's kind.
func (e *FormatError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *FormatError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first FormatError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
