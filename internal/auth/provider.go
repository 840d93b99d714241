package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
)

var ErrUnauthenticated = errors.New("authentication failed")

// Provider resolves an opaque bearer credential to an identity. The
// order workflow trusts this identity for ownership checks and the
// staff-only gates.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

type tokenProvider struct {
	tokens repository.TokenRepository
}

func NewTokenProvider(tokens repository.TokenRepository) Provider {
	return &tokenProvider{tokens: tokens}
}

func (p *tokenProvider) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	identity, err := p.tokens.FindIdentity(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return identity, nil
}
