package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/punch"
	"github.com/pontodigital/pontod/internal/server/repositories/punches"
	"github.com/pontodigital/pontod/internal/server/repositories/repomanager"
	"github.com/pontodigital/pontod/internal/syncx"
	"github.com/pontodigital/pontod/internal/timex"
)

// CorrectionInput is one rectification or justification request.
type CorrectionInput struct {
	EmployeeID  int64      `json:"employeeId"`
	CompanyCode string     `json:"companyCode"`
	Type        string     `json:"type"`
	PunchID     *int64     `json:"punchId"`
	Date        *time.Time `json:"date"`
	WindowStart *time.Time `json:"windowStart"`
	WindowEnd   *time.Time `json:"windowEnd"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Attachment  *string    `json:"attachment"`
}

// CorrectionOutcome reports what the engine did with one request.
type CorrectionOutcome struct {
	// Applied is true when the request was a rectification that mutated the
	// ledger directly; false when a pending event was created instead.
	Applied bool
	Punch   *models.Punch
	Event   *models.CorrectionEvent
}

// subcategories maps the free-form type names clients send onto the
// canonical event types. Unknown names fall back to JUSTIFICATIVA.
var subcategories = map[string]string{
	"justificativa": models.EventJustificativa,
	"atestado":      models.EventAtestado,
	"sistema":       models.EventSistema,
	"app":           models.EventApp,
	"outro":         models.EventOutro,
	"afst":          models.EventAfastamento,
	"afastamento":   models.EventAfastamento,
	"ajuste":        models.EventAjuste,
}

// rectificationTypes mutate the linked punch in place instead of opening an
// approval workflow.
var rectificationTypes = map[string]bool{
	models.EventAjuste:  true,
	models.EventSistema: true,
	models.EventApp:     true,
}

// CorrectionService routes correction requests: rectification types patch the
// linked punch and recount the day's ordinal roles under the employee-day
// lock; every other type records a pending approval event.
type CorrectionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	locks  *syncx.KeyedMutex
	logger logging.Logger
}

func NewCorrectionService(db *sql.DB, repos repomanager.RepositoryManager, locks *syncx.KeyedMutex, logger logging.Logger) *CorrectionService {
	return &CorrectionService{
		db:     db,
		repos:  repos,
		locks:  locks,
		logger: logger.With("module", "correction"),
	}
}

// Submit validates and dispatches one correction request.
func (s *CorrectionService) Submit(ctx context.Context, in CorrectionInput) (*CorrectionOutcome, error) {
	var missing []string
	if in.EmployeeID == 0 {
		missing = append(missing, "funcionario_id")
	}
	if in.Title == "" {
		missing = append(missing, "motivo")
	}
	if len(missing) > 0 {
		return nil, common.NewValidationError(missing...)
	}

	// The company code always comes from the employee record, never from the
	// caller; an employee without one is treated as unknown.
	emp, err := s.repos.Employees(s.db).FindByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee %d", common.ErrNotFound, in.EmployeeID)
		}
		s.logger.Error(ctx, "employee lookup", "err", err)
		return nil, fmt.Errorf("%w: employee lookup", common.ErrInternal)
	}
	if emp.CompanyCode == "" {
		return nil, fmt.Errorf("%w: employee %d has no company code", common.ErrNotFound, in.EmployeeID)
	}
	in.CompanyCode = emp.CompanyCode

	kind, ok := subcategories[strings.ToLower(strings.TrimSpace(in.Type))]
	if !ok {
		kind = models.EventJustificativa
	}

	start := nowFunc().UTC()
	if in.WindowStart != nil {
		start = *in.WindowStart
	}
	if in.WindowEnd != nil && in.WindowEnd.Before(start) {
		return nil, &common.ValidationError{Fields: []string{"data_fim"}, Msg: "window end precedes window start"}
	}

	if rectificationTypes[kind] {
		return s.rectify(ctx, in, kind)
	}
	return s.record(ctx, in, kind, start)
}

// rectify patches the punch named by the request and recounts the day's
// roles so the sequence stays gapless after the edit. The target is located
// by its linked id when the request carries one, otherwise by the employee's
// punches on the requested date.
func (s *CorrectionService) rectify(ctx context.Context, in CorrectionInput, kind string) (*CorrectionOutcome, error) {
	target, err := s.rectifyTarget(ctx, in)
	if err != nil {
		return nil, err
	}
	if target.EmployeeID != in.EmployeeID {
		return nil, &common.ValidationError{Msg: "punch belongs to another employee"}
	}

	dateKey := target.Date.Format(timex.DateLayout)
	s.locks.Lock(dayKey(target.EmployeeID, dateKey))
	defer s.locks.Unlock(dayKey(target.EmployeeID, dateKey))

	note := fmt.Sprintf("%s: %s", kind, in.Title)
	if target.Justification != "" {
		note = target.Justification + "; " + note
	}

	fields := punches.UpdateFields{Justification: &note}
	if in.Attachment != nil {
		fields.Attachment = in.Attachment
	}

	// Recount and patch inside one transaction so the role matches the
	// punch's position within the day, not the order of edits.
	var updated *models.Punch
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repos.Punches(tx)

		day, err := repoTx.FindForDay(ctx, target.EmployeeID, target.Date)
		if err != nil {
			return fmt.Errorf("loading day: %w", err)
		}
		for i, p := range day {
			if p.ID == target.ID {
				role := string(punch.Classify(i))
				fields.Role = &role
				break
			}
		}

		updated, err = repoTx.Update(ctx, target.ID, fields)
		return err
	}); err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.Info(ctx, "punch rectified", "id", updated.ID, "type", kind, "role", updated.Role)
	return &CorrectionOutcome{Applied: true, Punch: updated}, nil
}

// rectifyTarget resolves the punch a rectification applies to: the linked id
// when present, else the first punch on the requested date.
func (s *CorrectionService) rectifyTarget(ctx context.Context, in CorrectionInput) (*models.Punch, error) {
	repo := s.repos.Punches(s.db)

	if in.PunchID != nil {
		target, err := repo.FindByID(ctx, *in.PunchID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: punch %d", common.ErrNotFound, *in.PunchID)
			}
			s.logger.Error(ctx, "punch lookup", "err", err)
			return nil, fmt.Errorf("%w: punch lookup", common.ErrInternal)
		}
		return target, nil
	}

	if in.Date == nil {
		return nil, common.NewValidationError("ponto_id")
	}

	day, err := repo.FindForDay(ctx, in.EmployeeID, timex.DateOnly(*in.Date))
	if err != nil {
		s.logger.Error(ctx, "day lookup", "err", err)
		return nil, fmt.Errorf("%w: punch lookup", common.ErrInternal)
	}
	if len(day) == 0 {
		return nil, fmt.Errorf("%w: no punch on %s for employee %d",
			common.ErrNotFound, in.Date.Format(timex.DateLayout), in.EmployeeID)
	}
	return day[0], nil
}

// record stores a pending approval event.
func (s *CorrectionService) record(ctx context.Context, in CorrectionInput, kind string, start time.Time) (*CorrectionOutcome, error) {
	e := &models.CorrectionEvent{
		CompanyCode: in.CompanyCode,
		EmployeeID:  in.EmployeeID,
		Type:        kind,
		WindowStart: start,
		WindowEnd:   in.WindowEnd,
		Title:       in.Title,
		Description: in.Description,
		Attachment:  in.Attachment,
		Approval:    models.ApprovalPending,
	}

	stored, err := s.repos.Events(s.db).Insert(ctx, e)
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.Info(ctx, "correction event recorded", "id", stored.ID, "type", kind, "employee", stored.EmployeeID)
	return &CorrectionOutcome{Applied: false, Event: stored}, nil
}

// History lists the employee's correction events, newest-first.
func (s *CorrectionService) History(ctx context.Context, employeeID int64) ([]*models.CorrectionEvent, error) {
	if employeeID == 0 {
		return nil, common.NewValidationError("funcionario_id")
	}
	evts, err := s.repos.Events(s.db).ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error(ctx, "listing events", "err", err)
		return nil, fmt.Errorf("%w: listing events", common.ErrInternal)
	}
	return evts, nil
}
