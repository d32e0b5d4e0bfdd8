package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/lichiahui/lifelog/internal/logger"
)

var (
	// ErrStorageUnavailable means the embedded database could not be opened.
	// Fatal to the whole application; nothing proceeds past it.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrWriteFailed wraps a transaction abort on a user-initiated write.
	ErrWriteFailed = errors.New("write failed")
	// ErrNotFound is the absence result for single-record reads. Never raised
	// for empty collections.
	ErrNotFound = errors.New("record not found")
	// ErrValidation rejects bad input before any write occurs.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream wraps a non-success response or malformed body from the AI
	// responder. Distinguished from user cancellation (context.Canceled).
	ErrUpstream = errors.New("upstream AI request failed")
	// ErrAlreadyCheckedIn signals a second habit check-in on the same day.
	ErrAlreadyCheckedIn = errors.New("habit already checked in today")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
