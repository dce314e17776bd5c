// Package habits declares the repository contract for users' habits.
package habits

import (
	"context"

	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
)

// Repository scopes every operation to the owning user; habits of other
// users behave as if they did not exist.
type Repository interface {
	// List returns the user's habits ordered by creation time. A non-empty
	// tag restricts the result to habits carrying exactly that tag.
	List(ctx context.Context, userID, tag string) ([]models.Habit, error)
	Get(ctx context.Context, userID, id string) (*models.Habit, error)
	Create(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	// Update rewrites name, description and tag. Returns common.ErrorNotFound
	// when no habit matched.
	Update(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	Delete(ctx context.Context, userID, id string) error
	Progress(ctx context.Context, userID string) ([]models.Progress, error)
}
