package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cwsops/liveperson-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WriteJSONFiltered writes JSON with optional jq filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

// WriteJSONLines writes the filtered value as newline-delimited JSON.
// Arrays are flattened to one element per line.
func WriteJSONLines(w io.Writer, v any, query string) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	for _, line := range splitLines(result) {
		if err := WriteJSONMaybeCompact(w, line, true); err != nil {
			return err
		}
	}
	return nil
}

// ApplyQuery applies a jq query to structured data and returns the filtered value.
// Raw JSON is always decoded so templates see maps and slices.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if raw, ok := v.(json.RawMessage); ok {
		return filter.ApplyFromJSON(raw, query)
	}
	if query == "" {
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return filter.ApplyFromJSON(data, query)
}
