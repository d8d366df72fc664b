package domain

import "errors"

// Domain errors represent error conditions in the queue daemon.
// They are checked with errors.Is.
var (
	// ErrLineTooLong is returned when a line has no newline inside the read window.
	ErrLineTooLong = errors.New("ooqd: line too long")

	// ErrUnknownCommand is returned when no registry entry matches a line.
	ErrUnknownCommand = errors.New("ooqd: unknown command")

	// ErrUnterminatedString is returned when a quoted argument has no closing quote.
	ErrUnterminatedString = errors.New("ooqd: end of string not found")

	// ErrTooManyArguments is returned when a line exceeds the argv capacity.
	ErrTooManyArguments = errors.New("ooqd: too many arguments")

	// ErrRedirect is returned when an output redirection target cannot be opened.
	ErrRedirect = errors.New("ooqd: redirect failed")

	// ErrFatalRename is returned when the queue hand-off fails for a reason
	// other than the queue being absent.
	ErrFatalRename = errors.New("ooqd: rename failed")

	// ErrPathTooLong is returned when the queue path plus suffix does not fit
	// in the path window.
	ErrPathTooLong = errors.New("ooqd: filename too long")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("ooqd: invalid configuration")
)
