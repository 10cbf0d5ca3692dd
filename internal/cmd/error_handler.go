package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/config"
	"github.com/cwsops/liveperson-cli/internal/resolve"
	"github.com/cwsops/liveperson-cli/internal/validation"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var (
		argErr       *validation.ArgumentError
		authErr      *api.AuthError
		domainErr    *api.DomainError
		apiErr       *api.APIError
		decodeErr    *api.DecodeError
		transportErr *api.TransportError
		ambiguous    *resolve.AmbiguousError
	)

	switch {
	case errors.As(err, &argErr):
		fmt.Fprintf(&msg, "Error: %s\n\nRun the command with --help to see accepted values.\n", argErr.Error())

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No credentials configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: lp auth login\n")
		msg.WriteString("  - Or export LP_ACCOUNT_ID, LP_CONSUMER_KEY, LP_CONSUMER_SECRET,\n")
		msg.WriteString("    LP_ACCESS_TOKEN, LP_ACCESS_TOKEN_SECRET and LP_USERNAME\n")

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "%s\n", ambiguous.Error())

	case errors.As(err, &authErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", authErr.Reason)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the consumer key/secret and access token pair: lp auth status\n")
		msg.WriteString("  - Confirm the login user exists on the account\n")
		msg.WriteString("  - Run: lp auth login\n")

	case errors.As(err, &domainErr):
		fmt.Fprintf(&msg, "Could not resolve the domain for service %q.\n\n", domainErr.Service)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the account id: lp auth status\n")
		msg.WriteString("  - Verify the service name: lp domain --list\n")
		if api.IsServerError(err) || api.IsTransportError(err) {
			msg.WriteString("  - The discovery service may be unavailable; retry later\n")
		}
		fmt.Fprintf(&msg, "\nCause: %v\n", domainErr.Err)

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Body)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &decodeErr):
		fmt.Fprintf(&msg, "%s\n\n", decodeErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The endpoint answered with a non-JSON page; use --debug to inspect it\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Request failed: %v\n\n", transportErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Increase --timeout or --retry-limit\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch {
	case code == http.StatusBadRequest:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")
	case code == http.StatusUnauthorized:
		suggestions.WriteString("  - The OAuth signature or bearer token was rejected\n")
		suggestions.WriteString("  - Run: lp auth login\n")
	case code == http.StatusForbidden:
		suggestions.WriteString("  - The API key lacks permission for this API\n")
		suggestions.WriteString("  - Enable the API for the key in the account's Campaign Builder\n")
	case code == http.StatusNotFound:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ids and the API version\n")
	case code == http.StatusTooManyRequests:
		suggestions.WriteString("  - Too many requests; wait and retry\n")
	case code >= 500:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry, or raise --retry-limit\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

// errorPayload is the JSON shape of errors printed in JSON output modes.
type errorPayload struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Status    int    `json:"status,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Service   string `json:"service,omitempty"`
	ExitCode  int    `json:"exit_code"`
}

func structuredError(err error) errorPayload {
	p := errorPayload{Error: err.Error(), Kind: "error", ExitCode: ExitCode(err)}

	var (
		apiErr    *api.APIError
		domainErr *api.DomainError
	)
	if errors.As(err, &domainErr) {
		p.Service = domainErr.Service
	}
	if errors.As(err, &apiErr) {
		p.Status = apiErr.StatusCode
		p.RequestID = apiErr.RequestID
	}

	switch {
	case validation.IsArgumentError(err):
		p.Kind = "validation"
	case api.IsAuthError(err), errors.Is(err, config.ErrNotConfigured):
		p.Kind = "auth"
	case api.IsDomainError(err):
		p.Kind = "domain"
	case api.IsTransportError(err):
		p.Kind = "network"
	case apiErr != nil:
		p.Kind = "api"
	}
	return p
}
