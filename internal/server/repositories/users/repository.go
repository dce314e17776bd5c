// Package users declares the server-side repository contract for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user and returns it with ID and CreatedAt filled in.
	// A taken username or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByLogin finds a user by username or (case-insensitive) email.
	// Returns common.ErrorNotFound when nobody matches.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}
