// Package goauth builds activity log entries from go-auth actor metadata so
// transports behind go-auth middleware can record activity without copying
// identity fields by hand.
package goauth

import (
	"context"
	"strings"

	auth "github.com/goliatone/go-auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/google/uuid"
)

const textCodeActorInvalid = "ACTOR_CONTEXT_INVALID"

// EntryOption mutates the entry produced by BuildEntryFromActor.
type EntryOption func(*types.Entry)

// WithUserEmail sets the actor email, which go-auth does not always carry on
// the actor payload.
func WithUserEmail(email string) EntryOption {
	return func(entry *types.Entry) {
		entry.UserEmail = strings.TrimSpace(email)
	}
}

// WithUserName sets the actor display name.
func WithUserName(name string) EntryOption {
	return func(entry *types.Entry) {
		entry.UserName = strings.TrimSpace(name)
	}
}

// WithSeverity overrides the action's default severity band.
func WithSeverity(severity types.Severity) EntryOption {
	return func(entry *types.Entry) {
		entry.Severity = severity
	}
}

// BuildEntryFromActor constructs an entry using the actor metadata supplied
// by go-auth middleware plus action/resource details and optional metadata.
// It parses the actor identifier into a UUID and defensively copies metadata
// to avoid caller mutation.
func BuildEntryFromActor(actor *auth.ActorContext, action types.Action, resource types.ResourceType, resourceID, resourceName string, metadata map[string]any, opts ...EntryOption) (types.Entry, error) {
	if actor == nil {
		return types.Entry{}, goerrors.New("go-activitylog: actor context is nil", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	if actor.ActorID == "" {
		return types.Entry{}, goerrors.New("go-activitylog: actor context missing actor_id", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	actorID, err := uuid.Parse(actor.ActorID)
	if err != nil {
		return types.Entry{}, goerrors.Wrap(err, goerrors.CategoryAuth, "go-activitylog: invalid actor_id on auth context").
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}

	entry := types.Entry{
		UserID:       actorID,
		UserEmail:    strings.TrimSpace(actor.Subject),
		Action:       action,
		ResourceType: resource,
		ResourceID:   strings.TrimSpace(resourceID),
		ResourceName: strings.TrimSpace(resourceName),
		Severity:     action.DefaultSeverity(),
		Description:  types.DescriptionFor(action, resourceName),
		Metadata:     types.CloneMetadata(metadata),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&entry)
		}
	}

	return entry, nil
}

// BuildEntryFromContext resolves the actor stored by go-auth middleware and
// delegates to BuildEntryFromActor.
func BuildEntryFromContext(ctx context.Context, action types.Action, resource types.ResourceType, resourceID, resourceName string, metadata map[string]any, opts ...EntryOption) (types.Entry, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return types.Entry{}, goerrors.New("go-activitylog: auth actor context not found on request", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode("ACTOR_CONTEXT_MISSING")
	}
	return BuildEntryFromActor(actor, action, resource, resourceID, resourceName, metadata, opts...)
}
