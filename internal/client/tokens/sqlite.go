package tokens

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/habitkeeper/internal/dbx"
)

// SQLiteStore keeps tokens in the metadata table of the client state file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (models.TokenPair, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, _, err := repo.Get(ctx, AccessTokenKey)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("load tokens error: %w", err)
	}
	refresh, _, err := repo.Get(ctx, RefreshTokenKey)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("load tokens error: %w", err)
	}

	return models.TokenPair{Access: models.Token(access), Refresh: models.Token(refresh)}, nil
}

// Save writes both keys in one transaction. An empty token deletes its key.
func (s *SQLiteStore) Save(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for key, value := range map[string]models.Token{AccessTokenKey: pair.Access, RefreshTokenKey: pair.Refresh} {
			var err error
			if value == "" {
				err = repo.Delete(ctx, key)
			} else {
				err = repo.Set(ctx, key, string(value))
			}
			if err != nil {
				return fmt.Errorf("save tokens error: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens error: %w", err)
	}
	return nil
}
