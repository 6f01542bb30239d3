package store

import (
	"context"
	"strings"

	"github.com/goliatone/go-activitylog/pkg/types"
)

// Enricher fills best-effort request context onto an entry before it is
// enqueued. Enrichment failures never block the write path; the chain keeps
// the last successful entry and moves on.
type Enricher interface {
	Enrich(ctx context.Context, entry types.Entry) (types.Entry, error)
}

// EnricherFunc adapts a function into an Enricher.
type EnricherFunc func(ctx context.Context, entry types.Entry) (types.Entry, error)

// Enrich executes the function and satisfies Enricher.
func (f EnricherFunc) Enrich(ctx context.Context, entry types.Entry) (types.Entry, error) {
	return f(ctx, entry)
}

// EnricherChain composes multiple enrichers in order with best-effort
// semantics: an enricher error keeps the entry as of the previous step and
// continues the chain, so a missing IP never blocks the user agent.
type EnricherChain []Enricher

// Enrich applies the chain and satisfies Enricher. The returned error is
// always nil; it exists so the chain itself can be used as a link in another
// chain.
func (c EnricherChain) Enrich(ctx context.Context, entry types.Entry) (types.Entry, error) {
	current := entry
	for _, enricher := range c {
		if enricher == nil {
			continue
		}
		next, err := enricher.Enrich(ctx, current)
		if err != nil {
			continue
		}
		current = next
	}
	return current, nil
}

// ClientContext carries the request metadata a transport can attach to the
// context for enrichment. Fields are independently optional; absent means
// unknown, not empty.
type ClientContext struct {
	IP        string
	UserAgent string
	Location  string
}

type clientContextKey struct{}

// WithClientContext stores request metadata for the client context enricher.
func WithClientContext(ctx context.Context, client ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// ClientContextFrom extracts previously attached request metadata.
func ClientContextFrom(ctx context.Context) (ClientContext, bool) {
	client, ok := ctx.Value(clientContextKey{}).(ClientContext)
	return client, ok
}

// ClientContextEnricher copies IP, user agent, and location from the context
// onto the entry when the entry does not already carry them.
func ClientContextEnricher() Enricher {
	return EnricherFunc(func(ctx context.Context, entry types.Entry) (types.Entry, error) {
		client, ok := ClientContextFrom(ctx)
		if !ok {
			return entry, nil
		}
		if entry.IP == "" {
			entry.IP = strings.TrimSpace(client.IP)
		}
		if entry.UserAgent == "" {
			entry.UserAgent = strings.TrimSpace(client.UserAgent)
		}
		if entry.Location == "" {
			entry.Location = strings.TrimSpace(client.Location)
		}
		return entry, nil
	})
}
