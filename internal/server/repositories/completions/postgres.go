package completions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/dbx"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Completion, error) {
	query := `
		SELECT c.id, c.habit_id, c.date, c.completed
		FROM completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = $1
		ORDER BY c.habit_id, c.date
	`
	return r.query(ctx, query, userID)
}

func (r *PostgresRepository) ListByHabit(ctx context.Context, habitID string) ([]models.Completion, error) {
	query := `
		SELECT id, habit_id, date, completed
		FROM completions
		WHERE habit_id = $1
		ORDER BY date
	`
	return r.query(ctx, query, habitID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Completion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetOrCreate(ctx context.Context, habitID string, day time.Time) (*models.Completion, error) {
	query := `
		INSERT INTO completions (id, habit_id, date, completed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = TRUE
		RETURNING id, habit_id, date, completed
	`
	c := &models.Completion{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), habitID, day).
		Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
