package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeConsent      ErrorType = "consent"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeFormatChange ErrorType = "format_change"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error represents a scraper error with type information
type Error struct {
	Type    ErrorType
	Message string
	Channel string
}

func (e *Error) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("%s: %s error: %s", e.Channel, e.Type, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// ForChannel tags an error with the channel it belongs to
func (e *Error) ForChannel(channel string) *Error {
	return &Error{Type: e.Type, Message: e.Message, Channel: channel}
}

// IsTerminal reports whether an error type ends a channel's scrape.
// Parsing and network failures abort one channel; everything already
// accumulated is still persisted by the caller.
func IsTerminal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeParsing, ErrorTypeFormatChange:
		return true
	default:
		return false
	}
}
