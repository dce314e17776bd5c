// Package tokens persists the session's access and refresh tokens between
// CLI runs.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Store is a durable home for the token pair. A missing entry loads as an
// empty token.
type Store interface {
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}
