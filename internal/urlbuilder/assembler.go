package urlbuilder

import (
	"errors"
	"fmt"
)

var (
	// ErrBuilderLocked is returned by structural setters after Build.
	ErrBuilderLocked = errors.New("url builder is locked")
	// ErrURLNotBuilt is returned by URL when Build has not been called since
	// the last retrieval.
	ErrURLNotBuilt = errors.New("url has not been built: call Build before URL")
)

// State is the assembler lifecycle stage.
type State int

const (
	StateOpen State = iota
	StateLocked
)

func (s State) String() string {
	if s == StateLocked {
		return "locked"
	}
	return "open"
}

// Assembler is a single-owner URL builder with a lock/unlock lifecycle:
//
//	OPEN --Build--> LOCKED --URL--> OPEN
//
// While LOCKED, Create, SetDomain, SetService, SetAccount, SetAction,
// AddActionContext and SetVersion return ErrBuilderLocked; AddQueryParam is a
// silent no-op. HasQueryParam and UseFormat are configuration and apply in any
// state. The zero value is ready to use and builds https URLs.
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	draft  *Draft
	built  *Built
	query  bool
	format Format
}

// NewAssembler returns an open Assembler using FormatLegacy.
func NewAssembler() *Assembler {
	return &Assembler{}
}

func (a *Assembler) current() Draft {
	if a.draft == nil {
		return New(true)
	}
	return *a.draft
}

func (a *Assembler) set(field string, fn func(Draft) Draft) error {
	if a.built != nil {
		return fmt.Errorf("set %s: %w", field, ErrBuilderLocked)
	}
	d := fn(a.current())
	a.draft = &d
	return nil
}

// Create starts a URL with the https scheme when secure is true.
func (a *Assembler) Create(secure bool) error {
	return a.set("scheme", func(d Draft) Draft { return d.Secure(secure) })
}

func (a *Assembler) SetDomain(domain string) error {
	return a.set("domain", func(d Draft) Draft { return d.Domain(domain) })
}

func (a *Assembler) SetService(service string) error {
	return a.set("service", func(d Draft) Draft { return d.Service(service) })
}

func (a *Assembler) SetAccount(account string) error {
	return a.set("account", func(d Draft) Draft { return d.Account(account) })
}

func (a *Assembler) SetAction(action string) error {
	return a.set("action", func(d Draft) Draft { return d.Action(action) })
}

func (a *Assembler) AddActionContext(ctx string) error {
	return a.set("action context", func(d Draft) Draft { return d.ActionContext(ctx) })
}

func (a *Assembler) SetVersion(version string) error {
	return a.set("version", func(d Draft) Draft { return d.Version(version) })
}

// HasQueryParam toggles query parameter emission. It never fails and
// survives URL retrieval.
func (a *Assembler) HasQueryParam(enabled bool) {
	a.query = enabled
}

// UseFormat selects the serialisation for subsequent builds.
func (a *Assembler) UseFormat(f Format) {
	a.format = f
}

// AddQueryParam appends a parameter. It does nothing when query parameters
// are disabled, the assembler is locked, or value is nil.
func (a *Assembler) AddQueryParam(key string, value any) {
	if a.built != nil || !a.query {
		return
	}
	d := a.current().Param(key, value)
	a.draft = &d
}

// Build serialises the collected parts and locks the assembler.
func (a *Assembler) Build() {
	b := a.current().Query(a.query).Format(a.format).Build()
	a.built = &b
}

// URL returns the built URL, discards the parts and reopens the assembler.
// A second call without an intervening Build returns ErrURLNotBuilt.
func (a *Assembler) URL() (string, error) {
	if a.built == nil {
		return "", ErrURLNotBuilt
	}
	u := a.built.String()
	a.built = nil
	a.draft = nil
	return u, nil
}

// IsURLBuilt reports whether the assembler is locked.
func (a *Assembler) IsURLBuilt() bool {
	return a.built != nil
}

func (a *Assembler) State() State {
	if a.built != nil {
		return StateLocked
	}
	return StateOpen
}

// Parts returns a copy of the parts collected in the current cycle.
func (a *Assembler) Parts() Parts {
	if a.built != nil {
		return a.built.Parts()
	}
	return a.current().Parts()
}
