package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwsops/liveperson-cli/internal/api"
	"github.com/cwsops/liveperson-cli/internal/iocontext"
	"github.com/cwsops/liveperson-cli/internal/outfmt"
)

// column is one table column; path is a dotted field path into a record.
type column struct {
	header string
	path   string
}

// recordsRenderer returns a text renderer printing the array under key as a
// table, followed by the record count on stderr.
func recordsRenderer(cmd *cobra.Command, key string, cols []column, empty string) func(api.Result) error {
	return func(res api.Result) error {
		records, _ := res.Map()[key].([]any)
		return renderTable(cmd, records, cols, empty)
	}
}

func renderTable(cmd *cobra.Command, records []any, cols []column, empty string) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
	if len(records) == 0 {
		f.Empty(empty)
		return nil
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	if !f.StartTable(headers) {
		return nil
	}
	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = lookupPath(rec, c.path)
		}
		f.Row(row...)
	}
	return f.EndTable()
}

// lookupPath walks a dotted path through decoded JSON and formats the leaf.
// Missing fields render as "-".
func lookupPath(v any, path string) string {
	for _, key := range strings.Split(path, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return "-"
		}
		v = m[key]
	}
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
