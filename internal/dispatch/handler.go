// Package dispatch routes an entitled feature invocation to its handler
// and records the outcome in the usage ledger.
package dispatch

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	// ErrInvalidInput covers a missing or malformed file, text, or
	// selection in the request payload.
	ErrInvalidInput = errors.New("invalid_input")
	// ErrUpstream covers failures of external model or conversion calls.
	ErrUpstream = errors.New("upstream_failure")
	// ErrNoHandler means a feature key passed entitlement but has no
	// bound handler. That is a catalog/deployment mismatch, not caller
	// error.
	ErrNoHandler = errors.New("no_handler_bound")
)

// Upload is a file carried with the request.
type Upload struct {
	Name string
	Data []byte
}

// Request is the normalized invocation payload handed to handlers.
type Request struct {
	FeatureKey string
	UserID     *snowflake.ID
	SessionKey string

	File       *Upload
	Background *Upload
	Text       string
	Options    map[string]string
}

// Option returns a request option or the given default.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Artifact is a produced output file.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Preview is the phase-1 output of a two-phase feature: an annotated
// image plus the labels the caller may select from in phase 2. Preview
// results bypass the ledger.
type Preview struct {
	Artifact Artifact
	Objects  []string
}

// Result is what a handler produces on success. Exactly one of Artifact
// (with optional Text) or Preview is set.
type Result struct {
	Artifact *Artifact
	Text     string
	Preview  *Preview
}

// Handler executes one feature.
type Handler interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) (*Result, error)

func (f HandlerFunc) Execute(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Registry binds feature keys to handlers. Built once at startup.
type Registry map[string]Handler
