package cmd

import (
	"errors"

	"github.com/appsworld/machodump"
)

const (
	exitOK          = 0
	exitInput       = 1 // unreadable input, bad arguments
	exitUnsupported = 2 // not a Mach-O file
	exitCorrupt     = 3 // malformed fat table or load commands
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch {
	case errors.Is(err, macho.ErrMalformedFatEntry), errors.Is(err, macho.ErrMalformedLoadCommand):
		return exitCorrupt
	case errors.Is(err, macho.ErrUnrecognizedFormat):
		return exitUnsupported
	}
	return exitInput
}

// maxExitCode returns the highest exit code of errs.
func maxExitCode(errs []error) int {
	code := exitOK
	for _, err := range errs {
		code = max(code, exitCode(err))
	}
	return code
}
