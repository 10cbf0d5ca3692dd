// Package urlbuilder composes account-scoped resource URLs.
//
// Two APIs are provided. Draft and Built encode the builder state in the type
// system: a Draft carries every setter and Build turns it into an immutable
// Built, so a finished URL cannot be mutated. Assembler wraps the same parts
// in a stateful lock/unlock lifecycle for callers that need to hand a single
// builder around: setters fail with ErrBuilderLocked after Build, and URL can
// be retrieved exactly once per Build.
package urlbuilder

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// DefaultVersion is emitted as the v= parameter when none was set.
const DefaultVersion = "1"

// accountSegment always separates the service from the account id.
const accountSegment = "api/account"

// Format selects how the query string is serialised.
type Format int

const (
	// FormatLegacy concatenates key=value pairs with no separator and
	// terminates every path segment with a slash:
	// https://d/s/api/account/a/act/c/?k=vv=1
	FormatLegacy Format = iota
	// FormatStandard joins path segments with slashes and query pairs with
	// '&', escaping keys and values: https://d/s/api/account/a/act/c?k=v&v=1
	FormatStandard
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatStandard:
		return "standard"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Param is a single query parameter. Order of insertion is preserved.
type Param struct {
	Key   string
	Value string
}

// Parts are the components of a resource URL. Empty strings are omitted.
type Parts struct {
	Secure        bool
	Domain        string
	Service       string
	Account       string
	Action        string
	ActionContext string
	QueryEnabled  bool
	Query         []Param
	Version       string
}

func (p Parts) clone() Parts {
	if p.Query != nil {
		q := make([]Param, len(p.Query))
		copy(q, p.Query)
		p.Query = q
	}
	return p
}

func (p Parts) segments() []string {
	candidates := []string{p.Domain, p.Service, accountSegment, p.Account, p.Action, p.ActionContext}
	out := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p Parts) version() string {
	if p.Version == "" {
		return DefaultVersion
	}
	return p.Version
}

// Draft is an open, mutable-by-copy set of URL parts. Every setter returns a
// new Draft and leaves the receiver untouched.
type Draft struct {
	parts  Parts
	format Format
}

// New starts a Draft. secure selects https over http.
func New(secure bool) Draft {
	return Draft{parts: Parts{Secure: secure, Version: DefaultVersion}}
}

func (d Draft) Secure(secure bool) Draft {
	d.parts.Secure = secure
	return d
}

func (d Draft) Domain(domain string) Draft {
	d.parts.Domain = domain
	return d
}

func (d Draft) Service(service string) Draft {
	d.parts.Service = service
	return d
}

func (d Draft) Account(account string) Draft {
	d.parts.Account = account
	return d
}

func (d Draft) Action(action string) Draft {
	d.parts.Action = action
	return d
}

// ActionContext sets the optional sub-resource qualifier after the action.
func (d Draft) ActionContext(ctx string) Draft {
	d.parts.ActionContext = ctx
	return d
}

// Query toggles whether query parameters are emitted.
func (d Draft) Query(enabled bool) Draft {
	d.parts.QueryEnabled = enabled
	return d
}

// Param appends key=value. A nil value, including a typed nil pointer, is
// skipped. Adding an existing key replaces its value in place.
func (d Draft) Param(key string, value any) Draft {
	s, ok := formatValue(value)
	if !ok {
		return d
	}
	q := make([]Param, len(d.parts.Query), len(d.parts.Query)+1)
	copy(q, d.parts.Query)
	for i := range q {
		if q[i].Key == key {
			q[i].Value = s
			d.parts.Query = q
			return d
		}
	}
	d.parts.Query = append(q, Param{Key: key, Value: s})
	return d
}

func (d Draft) Version(version string) Draft {
	d.parts.Version = version
	return d
}

func (d Draft) Format(f Format) Draft {
	d.format = f
	return d
}

// Parts returns a copy of the parts collected so far.
func (d Draft) Parts() Parts {
	return d.parts.clone()
}

// Build serialises the draft into a locked URL.
func (d Draft) Build() Built {
	parts := d.parts.clone()
	return Built{url: serialize(parts, d.format), parts: parts, format: d.format}
}

// Built is a finished URL. It has no setters.
type Built struct {
	url    string
	parts  Parts
	format Format
}

func (b Built) String() string {
	return b.url
}

// Parts returns a copy of the parts the URL was built from.
func (b Built) Parts() Parts {
	return b.parts.clone()
}

func (b Built) Format() Format {
	return b.format
}

func serialize(p Parts, f Format) string {
	var sb strings.Builder
	if p.Secure {
		sb.WriteString("https://")
	} else {
		sb.WriteString("http://")
	}

	segments := p.segments()
	if f == FormatStandard {
		sb.WriteString(strings.Join(segments, "/"))
		sb.WriteByte('?')
		if p.QueryEnabled {
			for _, q := range p.Query {
				sb.WriteString(url.QueryEscape(q.Key))
				sb.WriteByte('=')
				sb.WriteString(url.QueryEscape(q.Value))
				sb.WriteByte('&')
			}
		}
		sb.WriteString("v=")
		sb.WriteString(url.QueryEscape(p.version()))
		return sb.String()
	}

	for _, s := range segments {
		sb.WriteString(s)
		sb.WriteByte('/')
	}
	sb.WriteByte('?')
	if p.QueryEnabled {
		for _, q := range p.Query {
			sb.WriteString(q.Key)
			sb.WriteByte('=')
			sb.WriteString(q.Value)
		}
	}
	sb.WriteString("v=")
	sb.WriteString(p.version())
	return sb.String()
}

func formatValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface()), true
}
