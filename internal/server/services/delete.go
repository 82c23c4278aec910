package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pontodigital/pontod/internal/common"
)

// DeleteInput identifies the punch to remove. The redundant descriptive
// fields are required so an accidental call with a bare id cannot wipe a row.
type DeleteInput struct {
	PunchID     int64    `json:"id"`
	EmployeeID  int64    `json:"employeeId"`
	CompanyCode string   `json:"companyCode"`
	Role        string   `json:"role"`
	Date        string   `json:"date"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Delete soft-removes one punch after checking that the descriptive fields
// match the stored row.
func (s *RegisterService) Delete(ctx context.Context, in DeleteInput) error {
	var missing []string
	if in.PunchID == 0 {
		missing = append(missing, "id")
	}
	if in.EmployeeID == 0 {
		missing = append(missing, "funcionario_id")
	}
	if in.CompanyCode == "" {
		missing = append(missing, "emp")
	}
	if in.Role == "" {
		missing = append(missing, "tip")
	}
	if in.Date == "" {
		missing = append(missing, "dat")
	}
	if in.Latitude == nil {
		missing = append(missing, "lat")
	}
	if in.Longitude == nil {
		missing = append(missing, "lng")
	}
	if len(missing) > 0 {
		return common.NewValidationError(missing...)
	}

	repo := s.repos.Punches(s.db)

	target, err := repo.FindByID(ctx, in.PunchID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: punch %d", common.ErrNotFound, in.PunchID)
		}
		s.logger.Error(ctx, "punch lookup", "err", err)
		return fmt.Errorf("%w: punch lookup", common.ErrInternal)
	}
	if target.EmployeeID != in.EmployeeID || target.CompanyCode != in.CompanyCode {
		return &common.ValidationError{Msg: "punch does not match the given employee"}
	}

	if err := repo.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		s.logger.Error(ctx, "deleting punch", "err", err)
		return fmt.Errorf("%w: deleting punch", common.ErrInternal)
	}

	s.logger.Info(ctx, "punch deleted", "id", target.ID, "employee", target.EmployeeID)
	return nil
}
