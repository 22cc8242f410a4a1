package common

import "fmt"

// ConfigError indicates a component was constructed with missing or invalid settings.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates invalid input data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// RateLimitError indicates a recipient has received too many emails in the current window.
type RateLimitError struct {
	Recipient string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for recipient: %s", e.Recipient)
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(recipient string) *RateLimitError {
	return &RateLimitError{Recipient: recipient}
}

// UnavailableError indicates an optional backend is not configured.
type UnavailableError struct {
	Feature string
}

func (e *UnavailableError) Error() string {
	return e.Feature + " is not configured"
}

// NewUnavailableError creates a new UnavailableError.
func NewUnavailableError(feature string) *UnavailableError {
	return &UnavailableError{Feature: feature}
}

// ProviderError indicates the prepare step or the mail transport failed.
// The cause stays reachable through errors.As and errors.Is.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
