// Package errors defines the error taxonomy shared by the ingestion pipeline
// and the command-line front end.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSourceRead     = errors.New("feed source unreadable")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrFeedParse      = errors.New("feed parse failed")
	ErrArticleFetch   = errors.New("article fetch failed")
	ErrArticleAddress = errors.New("invalid article address")
	ErrAborted        = errors.New("ingestion aborted")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal error")
)

// Exit codes used by the command-line front end.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitAborted  = 130
	ExitNoSource = 66
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrAborted):
		return ExitAborted
	case errors.Is(err, ErrSourceRead):
		return ExitNoSource
	case errors.Is(err, ErrInvalidInput):
		return ExitUsage
	default:
		return ExitFailure
	}
}
