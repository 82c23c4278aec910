package punches

import (
	"context"
	"time"

	"github.com/pontodigital/pontod/internal/server/models"
)

// UpdateFields is a partial update for a punch; nil fields are left untouched.
type UpdateFields struct {
	Justification *string
	Attachment    *string
	Role          *string
}

// Repository is the punch ledger contract consumed by the services.
// Date arguments are expected truncated to midnight UTC (timex.DateOnly).
type Repository interface {
	// FindByID returns the punch or common.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*models.Punch, error)

	// FindByEmployee returns the employee's non-deleted punches with
	// Date in [from, to], newest-first.
	FindByEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]*models.Punch, error)

	// FindSince returns all non-deleted punches with Date >= since,
	// newest-first. Used to build the reconciliation fingerprint window.
	FindSince(ctx context.Context, since time.Time) ([]*models.Punch, error)

	// FindForDay returns the employee's non-deleted punches for the exact
	// date, ordered by clock time ascending.
	FindForDay(ctx context.Context, employeeID int64, date time.Time) ([]*models.Punch, error)

	// ExistsAt reports whether a punch exists for the employee at the exact
	// date and clock time.
	ExistsAt(ctx context.Context, employeeID int64, date time.Time, clockTime string) (bool, error)

	// CountForDay counts the employee's non-deleted punches on the date.
	CountForDay(ctx context.Context, employeeID int64, date time.Time) (int, error)

	// Insert stores one punch and returns it with the assigned id.
	Insert(ctx context.Context, p *models.Punch) (*models.Punch, error)

	// InsertBatch stores all punches in one statement and returns the number
	// of rows written.
	InsertBatch(ctx context.Context, batch []*models.Punch) (int64, error)

	// Update applies a partial update and returns the updated punch, or
	// common.ErrNotFound when the id does not exist.
	Update(ctx context.Context, id int64, fields UpdateFields) (*models.Punch, error)

	// Delete soft-deletes the punch by id; common.ErrNotFound when absent
	// or already deleted.
	Delete(ctx context.Context, id int64) error
}
