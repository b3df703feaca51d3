package concepts

import (
	"context"
	"fmt"

	"github.com/codequest-dev/codequest/internal/dbx"
	"github.com/codequest-dev/codequest/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, concept *models.Concept) (*models.Concept, error) {

	query :=
		`INSERT INTO dsa_explanations (id, user_id, title, content, markdown_content, language, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		concept.ID, concept.UserID, concept.Title, concept.Content,
		concept.MarkdownContent, concept.Language, concept.Difficulty).
		Scan(&concept.CreatedAt, &concept.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return concept, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Concept, error) {

	query :=
		`SELECT id, title, content, markdown_content, language, difficulty, created_at, updated_at
		 FROM dsa_explanations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var concepts []*models.Concept
	for rows.Next() {
		c := &models.Concept{UserID: userID}
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.MarkdownContent,
			&c.Language, &c.Difficulty, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return concepts, nil
}
