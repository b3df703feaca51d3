package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codequest-dev/codequest/internal/common"
	"github.com/codequest-dev/codequest/internal/dbx"
	"github.com/codequest-dev/codequest/internal/server/models"
)

// PostgresRepository persists users over any DBTX, so the same code runs
// inside and outside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password, profile_photo, level, problems, quizzes, profile, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	problems, err := json.Marshal(user.Problems)
	if err != nil {
		return nil, fmt.Errorf("marshaling problems: %w", err)
	}
	quizzes, err := json.Marshal(user.Quizzes)
	if err != nil {
		return nil, fmt.Errorf("marshaling quizzes: %w", err)
	}

	query :=
		`INSERT INTO users (id, name, email, password, profile_photo, level, problems, quizzes, profile)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.ProfilePhoto,
		user.Level, problems, quizzes, []byte(user.Profile)).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateProfilePhoto(ctx context.Context, id, storageKey string) error {
	query := `UPDATE users SET profile_photo = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, storageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var problems, quizzes, profile []byte

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.ProfilePhoto, &user.Level, &problems, &quizzes, &profile, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(problems, &user.Problems); err != nil {
		return nil, fmt.Errorf("unmarshaling problems: %w", err)
	}
	if err := json.Unmarshal(quizzes, &user.Quizzes); err != nil {
		return nil, fmt.Errorf("unmarshaling quizzes: %w", err)
	}
	user.Profile = json.RawMessage(profile)

	return user, nil
}
