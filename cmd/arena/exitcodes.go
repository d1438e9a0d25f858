package main

import "fmt"

// Exit codes for the arena CLI.
const (
	ExitOK             = 0 // Every model answered.
	ExitInvalidArgs    = 1 // Bad flags or an invalid submission.
	ExitPartialFailure = 2 // Some models failed.
	ExitTotalFailure   = 3 // No model answered.
	ExitConfig         = 4 // Configuration could not be loaded or lacks a credential.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
