package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cwsops/liveperson-cli/internal/validation"
)

// VisitorAPIVersion is the version of the visitor monitoring API.
const VisitorAPIVersion = "1"

func visitorEventsEndpoint(visitorID, sessionID string) endpoint {
	return endpoint{
		action:  "monitoring/visitors",
		context: url.PathEscape(visitorID) + "/visits/current/events",
		version: VisitorAPIVersion,
		params:  []param{{"sid", sessionID}},
	}
}

// Events returns the current visit events of a visitor session.
func (s VisitorsService) Events(ctx context.Context, visitorID, sessionID string) (Result, error) {
	return visitorEvents(ctx, s, visitorID, sessionID)
}

func visitorEvents(ctx context.Context, r Requester, visitorID, sessionID string) (Result, error) {
	if err := validateVisitor(visitorID, sessionID); err != nil {
		return Result{}, err
	}
	return callSigned(ctx, r, DomainVisitorMonitoring, http.MethodGet, visitorEventsEndpoint(visitorID, sessionID), nil), nil
}

// SetEvents reports events for a visitor session. payload is sent as the
// JSON body.
func (s VisitorsService) SetEvents(ctx context.Context, visitorID, sessionID string, payload any) (Result, error) {
	return setVisitorEvents(ctx, s, visitorID, sessionID, payload)
}

func setVisitorEvents(ctx context.Context, r Requester, visitorID, sessionID string, payload any) (Result, error) {
	if err := validateVisitor(visitorID, sessionID); err != nil {
		return Result{}, err
	}
	if payload == nil {
		return Result{}, &validation.ArgumentError{Field: "payload", Reason: "events payload is required"}
	}
	return callSigned(ctx, r, DomainVisitorMonitoring, http.MethodPost, visitorEventsEndpoint(visitorID, sessionID), payload), nil
}

func validateVisitor(visitorID, sessionID string) error {
	if err := validation.ValidateRequired("visitor id", visitorID); err != nil {
		return err
	}
	return validation.ValidateRequired("session id", sessionID)
}
