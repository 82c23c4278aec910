package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/repositories/repomanager"
	"github.com/pontodigital/pontod/internal/timex"
)

// PunchView is the projection of one ledger row for mobile consumption. The
// field names mirror the legacy column names the app was built against.
type PunchView struct {
	ID             int64    `json:"id"`
	EmployeeID     int64    `json:"funcionario_id"`
	CompanyCode    string   `json:"emp"`
	Date           string   `json:"dat"`
	ClockTime      string   `json:"hora"`
	LocationID     *int64   `json:"locacao_id"`
	Origin         string   `json:"origem"`
	Latitude       *float64 `json:"lat"`
	Longitude      *float64 `json:"lng"`
	Address        *string  `json:"endereco"`
	DistanceMeters *int64   `json:"distancia_m"`
	Status         string   `json:"status"`
	Justification  string   `json:"justificativa"`
	Processo       string   `json:"processo"`
	OriginalTime   string   `json:"ori"`
	Role           string   `json:"tip"`
	CreatedAt      string   `json:"created_at"`
}

// SyncService projects the recent ledger window for one employee so the
// mobile app can replace its local cache wholesale.
type SyncService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	windowDays int
	logger     logging.Logger
}

func NewSyncService(db *sql.DB, repos repomanager.RepositoryManager, windowDays int, logger logging.Logger) *SyncService {
	return &SyncService{
		db:         db,
		repos:      repos,
		windowDays: windowDays,
		logger:     logger.With("module", "sync"),
	}
}

// Window returns the employee's punches from the last windowDays, newest
// first, with timestamps rendered as server-local wall time.
func (s *SyncService) Window(ctx context.Context, employeeID int64) ([]PunchView, error) {
	if employeeID == 0 {
		return nil, common.NewValidationError("funcionario_id")
	}

	now := timex.ToServerLocal(nowFunc())
	to := timex.DateOnly(now)
	from := to.AddDate(0, 0, -s.windowDays)

	rows, err := s.repos.Punches(s.db).FindByEmployee(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error(ctx, "loading window", "err", err)
		return nil, fmt.Errorf("%w: loading punches", common.ErrInternal)
	}

	views := make([]PunchView, 0, len(rows))
	for _, p := range rows {
		views = append(views, projectPunch(p))
	}

	s.logger.Info(ctx, "window projected", "employee", employeeID, "rows", len(views))
	return views, nil
}

// projectPunch renders one row. Processo is stored as server-local wall time
// and formats directly; CreatedAt is stored UTC and shifts on the way out.
func projectPunch(p *models.Punch) PunchView {
	return PunchView{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		CompanyCode:    p.CompanyCode,
		Date:           p.Date.Format(timex.DateLayout),
		ClockTime:      p.ClockTime,
		LocationID:     p.LocationID,
		Origin:         p.Origin,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Address:        p.Address,
		DistanceMeters: p.DistanceMeters,
		Status:         p.Status,
		Justification:  p.Justification,
		Processo:       p.Processo.Format(timex.TimestampLayout),
		OriginalTime:   p.OriginalTime,
		Role:           p.Role,
		CreatedAt:      timex.FormatServerLocal(p.CreatedAt),
	}
}
