package events

import (
	"context"

	"github.com/pontodigital/pontod/internal/server/models"
)

// Repository is the correction-event store contract.
type Repository interface {
	// Insert stores one event and returns it with the assigned id.
	Insert(ctx context.Context, e *models.CorrectionEvent) (*models.CorrectionEvent, error)

	// ListByEmployee returns the employee's events, newest-first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*models.CorrectionEvent, error)
}
