// Package concepts persists saved DSA explanations, scoped per user.
package concepts

import (
	"context"

	"github.com/codequest-dev/codequest/internal/server/models"
)

type Repository interface {
	// Create inserts a new explanation row.
	Create(ctx context.Context, concept *models.Concept) (*models.Concept, error)

	// ListByUser returns all explanations owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Concept, error)
}
