// Package auth issues and resolves the opaque bearer tokens clients use
// instead of re-sending their password.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"board-service/internal/domain"
	"board-service/internal/domain/entities"
)

// tokenBytes of entropy per token; encodes to 43 URL-safe characters.
const tokenBytes = 32

var (
	ErrMissingCredentials = &domain.Error{
		Kind:    domain.ErrUnauthenticated,
		Message: `Authentication required. Provide "Authorization: Token <token>" header.`,
	}
	ErrInvalidToken = &domain.Error{
		Kind:    domain.ErrUnauthenticated,
		Message: "Invalid or expired token.",
	}
)

// TokenStore keeps the token->user and user->token mappings consistent.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Issue returns the user's live token, or stores and returns mint()'s
	// result when the user has none.
	Issue(ctx context.Context, userID uuid.UUID, mint func() (string, error)) (string, error)
	Lookup(ctx context.Context, token string) (uuid.UUID, bool, error)
	// Revoke is a no-op for unknown tokens.
	Revoke(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type UserFinder interface {
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

type Registry struct {
	store TokenStore
	users UserFinder
}

func NewRegistry(store TokenStore, users UserFinder) *Registry {
	return &Registry{store: store, users: users}
}

// Issue is idempotent per user: a second login gets the same token back.
func (r *Registry) Issue(ctx context.Context, user *entities.User) (string, error) {
	token, err := r.store.Issue(ctx, user.Id, NewToken)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Resolve returns the user a token was issued to. A token that outlived its
// user is evicted and reported as ErrInvalidToken.
func (r *Registry) Resolve(ctx context.Context, token string) (*entities.User, error) {
	userID, ok, err := r.store.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := r.users.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	if user == nil {
		if err := r.store.Revoke(ctx, token); err != nil {
			return nil, fmt.Errorf("evict stale token: %w", err)
		}
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (r *Registry) Revoke(ctx context.Context, token string) error {
	return r.store.Revoke(ctx, token)
}

func (r *Registry) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.store.RevokeUser(ctx, userID)
}

func (r *Registry) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}

// NewToken returns a fresh random token from crypto/rand.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
