// Package repomanager vends repository implementations bound to a DBTX and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/codequest-dev/codequest/internal/dbx"
	"github.com/codequest-dev/codequest/internal/server/repositories/concepts"
	"github.com/codequest-dev/codequest/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Concepts(db dbx.DBTX) concepts.Repository
}
