package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kynetix/internal/dbx"
	"github.com/dmitrijs2005/kynetix/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a caller-scoped storage
// handle and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
