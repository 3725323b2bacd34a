package engine

import "errors"

// All engine errors are recoverable: they are reported to the operator
// as a one-line message and never leave partial state behind.
var (
	// ErrBufferFull means a fixed-capacity buffer (input line, path
	// stack) would overflow. The operation is rejected, the buffer is
	// unchanged.
	ErrBufferFull = errors.New("buffer full")

	// Navigation failures. The path stack is never mutated on error.
	ErrInvalidPath   = errors.New("invalid path")
	ErrNotFound      = errors.New("no such directory or command")
	ErrNotADirectory = errors.New("not a directory")

	ErrAccessDenied    = errors.New("access denied")
	ErrCommandNotFound = errors.New("command not found")
	ErrArgCount        = errors.New("wrong number of arguments")
	ErrTooManyArgs     = errors.New("too many arguments")

	ErrInvalidLoginFormat = errors.New("expected username:password")
	// ErrLoginFailed deliberately does not say whether the username or
	// the password was wrong.
	ErrLoginFailed = errors.New("login incorrect")
)
