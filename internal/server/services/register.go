package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/punch"
	"github.com/pontodigital/pontod/internal/server/repositories/repomanager"
	"github.com/pontodigital/pontod/internal/syncx"
	"github.com/pontodigital/pontod/internal/timex"
)

// RegisterInput is one live punch as submitted by the mobile client.
type RegisterInput struct {
	EmployeeID     int64    `json:"employeeId"`
	CompanyCode    string   `json:"companyCode"`
	Date           string   `json:"date"`
	ClockTime      string   `json:"clockTime"`
	LocationID     *int64   `json:"locationId"`
	Origin         string   `json:"origin"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Address        *string  `json:"address"`
	DistanceMeters *int64   `json:"distanceMeters"`
	Status         string   `json:"status"`
	Justification  string   `json:"justification"`
	OriginalTime   string   `json:"originalOrientation"`
}

// RegisterService records one live punch with conflict detection and ordinal
// classification. Counting and inserting run under a per-employee-day lock so
// two punches never receive the same role.
type RegisterService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	locks  *syncx.KeyedMutex
	logger logging.Logger
}

// NewRegisterService constructs a RegisterService sharing locks with the
// correction engine.
func NewRegisterService(db *sql.DB, repos repomanager.RepositoryManager, locks *syncx.KeyedMutex, logger logging.Logger) *RegisterService {
	return &RegisterService{
		db:     db,
		repos:  repos,
		locks:  locks,
		logger: logger.With("module", "register"),
	}
}

// dayKey scopes the mutual-exclusion lock to one employee-day.
func dayKey(employeeID int64, date string) string {
	return fmt.Sprintf("%d:%s", employeeID, date)
}

// Register validates, conflict-checks, classifies and stores the punch.
// Returns a ValidationError listing every missing required field, or
// ErrConflict when a punch for the same employee, day and clock time exists.
func (s *RegisterService) Register(ctx context.Context, in RegisterInput) (*models.Punch, error) {
	var missing []string
	if in.EmployeeID == 0 {
		missing = append(missing, "funcionario_id")
	}
	if in.CompanyCode == "" {
		missing = append(missing, "emp")
	}
	if in.Date == "" {
		missing = append(missing, "dat")
	}
	if len(missing) > 0 {
		return nil, common.NewValidationError(missing...)
	}

	date, err := time.Parse(timex.DateLayout, in.Date)
	if err != nil {
		if ts, tsErr := time.Parse(timex.TimestampLayout, in.Date); tsErr == nil {
			date = timex.DateOnly(ts)
		} else {
			return nil, &common.ValidationError{Fields: []string{"dat"}, Msg: "invalid date: " + in.Date}
		}
	}

	now := nowFunc()
	clock := in.ClockTime
	if clock == "" {
		clock = timex.ToServerLocal(now).Format("15:04")
	}

	dateKey := date.Format(timex.DateLayout)
	s.locks.Lock(dayKey(in.EmployeeID, dateKey))
	defer s.locks.Unlock(dayKey(in.EmployeeID, dateKey))

	repo := s.repos.Punches(s.db)

	exists, err := repo.ExistsAt(ctx, in.EmployeeID, date, clock)
	if err != nil {
		s.logger.Error(ctx, "conflict lookup", "err", err)
		return nil, fmt.Errorf("%w: conflict lookup", common.ErrInternal)
	}
	if exists {
		return nil, fmt.Errorf("%w: a punch already exists at this time for this day", common.ErrConflict)
	}

	prior, err := repo.CountForDay(ctx, in.EmployeeID, date)
	if err != nil {
		s.logger.Error(ctx, "counting punches", "err", err)
		return nil, fmt.Errorf("%w: counting punches", common.ErrInternal)
	}
	role := punch.Classify(prior)

	p := &models.Punch{
		EmployeeID:     in.EmployeeID,
		CompanyCode:    in.CompanyCode,
		Date:           date,
		ClockTime:      clock,
		LocationID:     in.LocationID,
		Origin:         defaultString(in.Origin, "mobile"),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Address:        in.Address,
		DistanceMeters: in.DistanceMeters,
		Status:         defaultString(in.Status, "registrado"),
		Justification:  in.Justification,
		Processo:       timex.ToServerLocal(now),
		OriginalTime:   defaultString(in.OriginalTime, clock),
		Role:           string(role),
	}

	stored, err := repo.Insert(ctx, p)
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.Info(ctx, "punch registered",
		"id", stored.ID, "employee", stored.EmployeeID, "day_count", prior+1, "role", stored.Role)
	return stored, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
