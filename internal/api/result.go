package api

import (
	"encoding/json"
	"errors"
)

// ErrEmptyResult is returned by Decode when a successful call had no body.
var ErrEmptyResult = errors.New("empty response body")

// Result is the outcome of one executed call. Transport failures never
// surface as Go errors from the executor: they are recorded in Err, so a
// caller can tell "no data" (OK with an empty body) from "call failed".
type Result struct {
	Body       json.RawMessage
	StatusCode int
	Attempts   int
	Err        error
}

func failed(err error) Result {
	return Result{Err: err}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Decode unmarshals the body into v. A failed Result returns its error.
func (r Result) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Body) == 0 {
		return ErrEmptyResult
	}
	return json.Unmarshal(r.Body, v)
}

// Map returns the body as a JSON object. Failed calls and non-object bodies
// yield an empty map.
func (r Result) Map() map[string]any {
	m := map[string]any{}
	if r.Err != nil || len(r.Body) == 0 {
		return m
	}
	if err := json.Unmarshal(r.Body, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// Value returns the decoded body, or nil when the call failed.
func (r Result) Value() any {
	if r.Err != nil || len(r.Body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil
	}
	return v
}
