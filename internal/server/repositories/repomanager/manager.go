package repomanager

import (
	"context"
	"database/sql"

	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/server/repositories/employees"
	"github.com/pontodigital/pontod/internal/server/repositories/events"
	"github.com/pontodigital/pontod/internal/server/repositories/punches"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Punches(db dbx.DBTX) punches.Repository
	Events(db dbx.DBTX) events.Repository
	Employees(db dbx.DBTX) employees.Repository
}
