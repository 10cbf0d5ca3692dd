package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"
)

type templateKey struct{}

// WithTemplate adds a template string to the context
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	return context.WithValue(ctx, templateKey{}, tmpl)
}

// GetTemplate retrieves the template string from context
func GetTemplate(ctx context.Context) string {
	tmpl, _ := ctx.Value(templateKey{}).(string)
	return tmpl
}

// templateFuncs are available to --template. LivePerson reports times as
// epoch milliseconds and durations in seconds.
var templateFuncs = template.FuncMap{
	"json":  templateJSON,
	"epoch": epochMillis,
	"secs":  seconds,
	"join":  joinList,
	"dash":  orDash,
}

// WriteTemplate renders data (already decoded from JSON) with a
// text/template. Missing map keys render as empty.
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return templateError("invalid template", err)
	}
	if err := t.Execute(w, v); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

func templateJSON(val any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(val); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// toMillis accepts the number shapes a decoded body can hold, including
// numeric strings. ok is false for anything else.
func toMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// epochMillis renders an epoch-millisecond value as RFC 3339 in UTC, or "-".
func epochMillis(v any) string {
	ms, ok := toMillis(v)
	if !ok || ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// seconds renders a duration in seconds as e.g. "1m30s", or "-".
func seconds(v any) string {
	s, ok := toMillis(v)
	if !ok || s < 0 {
		return "-"
	}
	return (time.Duration(s) * time.Second).String()
}

func joinList(v any, sep string) string {
	items, ok := v.([]any)
	if !ok {
		return orDash(v)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, sep)
}

func orDash(v any) string {
	if v == nil {
		return "-"
	}
	if s, ok := v.(string); ok && s == "" {
		return "-"
	}
	return fmt.Sprint(v)
}

var templateLocation = regexp.MustCompile(`output:(\d+)(?::(\d+))?:`)

func templateError(kind string, err error) error {
	m := templateLocation.FindStringSubmatch(err.Error())
	switch {
	case len(m) == 3 && m[2] != "":
		return fmt.Errorf("%s at line %s, column %s: %w", kind, m[1], m[2], err)
	case len(m) == 3:
		return fmt.Errorf("%s at line %s: %w", kind, m[1], err)
	}
	return fmt.Errorf("%s: %w", kind, err)
}
