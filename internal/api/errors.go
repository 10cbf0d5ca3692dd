package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNoBaseURI is returned when discovery answers without a domain.
var ErrNoBaseURI = errors.New("discovery response has no baseURI")

// TransportError wraps a network-level failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// DecodeError reports a 2xx response whose body is not JSON.
type DecodeError struct {
	StatusCode  int
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected API response format (status %d, %s): %v", e.StatusCode, e.ContentType, e.Err)
	}
	return fmt.Sprintf("unexpected API response format (status %d, %s)", e.StatusCode, e.ContentType)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DomainError reports a failed service domain lookup.
type DomainError struct {
	Service string
	Err     error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("resolve domain for %q: %v", e.Service, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// AuthError represents an authentication or authorization error.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsTransportError checks if the error is a network-level failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsAuthError checks if the error is an authentication error, including
// 401 and 403 responses.
func IsAuthError(err error) bool {
	var e *AuthError
	if errors.As(err, &e) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// IsDomainError checks if the error is a failed domain lookup.
func IsDomainError(err error) bool {
	var e *DomainError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

const redactedBody = "API request failed (response body redacted for security)"

// sanitizeErrorBody extracts a safe error message from an API response
// without exposing tokens or account data.
func sanitizeErrorBody(body string) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
		Errors  any    `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return redactedBody
	}

	var result string
	switch {
	case errResp.Error != "":
		result = errResp.Error
	case errResp.Message != "":
		result = errResp.Message
	case errResp.Reason != "":
		result = errResp.Reason
	}

	if details := formatValidationErrors(errResp.Errors); details != "" {
		if result != "" {
			return result + "\nValidation errors:\n" + details
		}
		return "Validation errors:\n" + details
	}
	if result != "" {
		return result
	}
	return redactedBody
}

// formatValidationErrors handles both map[string]string and
// map[string][]string error payloads.
func formatValidationErrors(errs any) string {
	errMap, ok := errs.(map[string]any)
	if !ok || len(errMap) == 0 {
		return ""
	}

	var lines []string
	for field, value := range errMap {
		switch v := value.(type) {
		case string:
			lines = append(lines, fmt.Sprintf("  %s: %s", field, v))
		case []any:
			for _, msg := range v {
				if s, ok := msg.(string); ok {
					lines = append(lines, fmt.Sprintf("  %s: %s", field, s))
				}
			}
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
