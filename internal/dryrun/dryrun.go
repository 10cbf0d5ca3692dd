// Package dryrun carries the --dry-run switch and renders previews of
// calls that would change state.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview describes a call that was not made.
type Preview struct {
	Operation string         `json:"operation"`
	Target    string         `json:"target"`
	Method    string         `json:"method,omitempty"`
	Service   string         `json:"service,omitempty"`
	Path      string         `json:"path,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Payload is the JSON form printed in JSON output modes.
func (p *Preview) Payload() map[string]any {
	out := map[string]any{
		"dry_run":   true,
		"operation": p.Operation,
		"target":    p.Target,
	}
	if p.Method != "" {
		out["method"] = p.Method
	}
	if p.Service != "" {
		out["service"] = p.Service
	}
	if p.Path != "" {
		out["path"] = p.Path
	}
	if len(p.Details) > 0 {
		out["details"] = p.Details
	}
	if len(p.Warnings) > 0 {
		out["warnings"] = p.Warnings
	}
	return out
}

// Write renders the preview as text. Details are sorted by key.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.Operation, p.Target)
	if p.Method != "" {
		_, _ = fmt.Fprintf(w, "  Request: %s %s %s\n", p.Method, p.Service, p.Path)
	}

	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Details[k])
	}

	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "No changes made; run without --dry-run to apply.")
}
