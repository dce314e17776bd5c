// Package completions declares the repository contract for habit
// completion days.
package completions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
)

type Repository interface {
	// ListByUser returns every completion of every habit owned by userID,
	// ordered by habit and date.
	ListByUser(ctx context.Context, userID string) ([]models.Completion, error)

	// ListByHabit returns the completions of one habit ordered by date.
	ListByHabit(ctx context.Context, habitID string) ([]models.Completion, error)

	// GetOrCreate marks habitID done on day. A second call for the same day
	// returns the existing row instead of inserting a duplicate.
	GetOrCreate(ctx context.Context, habitID string, day time.Time) (*models.Completion, error)
}
