// Package users implements the credential store adapter: persistence of
// identity records keyed by id and by (lowercased) email.
package users

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

type Repository interface {
	// Create inserts a new user row. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfilePhoto stores the avatar storage key on the user row.
	UpdateProfilePhoto(ctx context.Context, id, storageKey string) error
}
