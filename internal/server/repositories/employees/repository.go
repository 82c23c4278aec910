package employees

import (
	"context"

	"github.com/pontodigital/pontod/internal/server/models"
)

// Repository is the employee lookup contract. All methods return
// common.ErrNotFound for absent or soft-deleted employees.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Employee, error)

	// FindByLogin looks an employee up by tenant code and login name.
	FindByLogin(ctx context.Context, companyCode, login string) (*models.Employee, error)

	// FindProfile returns the employee joined with location and function
	// display names.
	FindProfile(ctx context.Context, id int64) (*models.EmployeeProfile, error)
}
