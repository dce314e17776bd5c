package habits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
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

func (r *PostgresRepository) List(ctx context.Context, userID, tag string) ([]models.Habit, error) {
	query := `
		SELECT id, user_id, name, description, tag, created_at
		FROM habits
		WHERE user_id = $1 AND ($2 = '' OR tag = $2)
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, tag)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Tag, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Habit, error) {
	query := `
		SELECT id, user_id, name, description, tag, created_at
		FROM habits
		WHERE id = $1 AND user_id = $2
	`
	h := &models.Habit{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Tag, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return h, nil
}

func (r *PostgresRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}

	query := `
		INSERT INTO habits (id, user_id, name, description, tag)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, habit.ID, habit.UserID, habit.Name, habit.Description, habit.Tag).
		Scan(&habit.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return habit, nil
}

func (r *PostgresRepository) Update(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	query := `
		UPDATE habits SET name = $1, description = $2, tag = $3
		WHERE id = $4 AND user_id = $5
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, habit.Name, habit.Description, habit.Tag, habit.ID, habit.UserID).
		Scan(&habit.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return habit, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM habits
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Progress(ctx context.Context, userID string) ([]models.Progress, error) {
	query := `
		SELECT h.id, h.name, COUNT(c.id), COUNT(c.id) FILTER (WHERE c.completed)
		FROM habits h
		LEFT JOIN completions c ON c.habit_id = h.id
		WHERE h.user_id = $1
		GROUP BY h.id, h.name, h.created_at
		ORDER BY h.created_at, h.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Progress{}
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.HabitID, &p.Habit, &p.Total, &p.Completed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
