package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrAPINotConfigured = errors.New("api not configured")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTrackNotFound    = errors.New("track not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoMediaURL       = errors.New("track has no media url")
	ErrAudioUnavailable = errors.New("audio output unavailable")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// EncoreError wraps an error with a user-friendly suggestion.
type EncoreError struct {
	Err        error
	Suggestion string
}

func (e *EncoreError) Error() string {
	return e.Err.Error()
}

func (e *EncoreError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &EncoreError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var encoreErr *EncoreError
	if errors.As(err, &encoreErr) && encoreErr.Suggestion != "" {
		return encoreErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrAPINotConfigured) || strings.Contains(errStr, "api not configured") {
		return "Set api.base_url in ~/.encorerc or export ENCORE_API_URL"
	}

	if errors.Is(err, ErrUnauthorized) || strings.Contains(errStr, "401") {
		return "Set api.token in ~/.encorerc or export ENCORE_API_TOKEN"
	}

	if errors.Is(err, ErrTrackNotFound) {
		return "Run 'encore search <query>' to find a valid track ID"
	}

	if errors.Is(err, ErrNoMediaURL) {
		return "The track has no playable file yet. Try another track"
	}

	if errors.Is(err, ErrAudioUnavailable) {
		return "Check your audio device, or set player.audio = \"off\" to run silently"
	}

	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'encore config init' to create a configuration file"
	}

	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The music service is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Err returns nil when nothing failed and the error itself when one thing
// did. Several failures are combined into one error whose message is
// ErrorSummary and which matches each of them with errors.Is.
func (p *PartialResult[T]) Err() error {
	switch len(p.Errors) {
	case 0:
		return nil
	case 1:
		return p.Errors[0]
	}
	return &partialError{summary: strings.TrimSuffix(p.ErrorSummary(), "\n"), errs: p.Errors}
}

type partialError struct {
	summary string
	errs    []error
}

func (e *partialError) Error() string   { return e.summary }
func (e *partialError) Unwrap() []error { return e.errs }
