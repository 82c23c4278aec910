package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/models"
	"github.com/pontodigital/pontod/internal/server/repositories/employees"
	"github.com/pontodigital/pontod/internal/server/repositories/events"
	"github.com/pontodigital/pontod/internal/server/repositories/punches"
)

// --- helpers ---

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// fakePunchRepo is an in-memory punches.Repository. Rows are stored by id;
// errFind / errInsert / errUpdate force failures for the error paths.
type fakePunchRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Punch

	errFind   error
	errInsert error
	errUpdate error
	errDelete error
}

func newFakePunchRepo() *fakePunchRepo {
	return &fakePunchRepo{nextID: 1, rows: make(map[int64]*models.Punch)}
}

func (f *fakePunchRepo) all() []*models.Punch {
	out := make([]*models.Punch, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePunchRepo) FindByID(ctx context.Context, id int64) (*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return nil, f.errFind
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePunchRepo) FindByEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return nil, f.errFind
	}
	var out []*models.Punch
	for _, p := range f.all() {
		if p.EmployeeID == employeeID && !p.Date.Before(from) && !p.Date.After(to) {
			cp := *p
			out = append(out, &cp)
		}
	}
	// newest-first like the SQL implementation
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ClockTime > out[j].ClockTime
	})
	return out, nil
}

func (f *fakePunchRepo) FindSince(ctx context.Context, since time.Time) ([]*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return nil, f.errFind
	}
	var out []*models.Punch
	for _, p := range f.all() {
		if !p.Date.Before(since) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePunchRepo) FindForDay(ctx context.Context, employeeID int64, date time.Time) ([]*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return nil, f.errFind
	}
	var out []*models.Punch
	for _, p := range f.all() {
		if p.EmployeeID == employeeID && p.Date.Equal(date) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockTime < out[j].ClockTime })
	return out, nil
}

func (f *fakePunchRepo) ExistsAt(ctx context.Context, employeeID int64, date time.Time, clockTime string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return false, f.errFind
	}
	for _, p := range f.rows {
		if p.EmployeeID == employeeID && p.Date.Equal(date) && p.ClockTime == clockTime {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePunchRepo) CountForDay(ctx context.Context, employeeID int64, date time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFind != nil {
		return 0, f.errFind
	}
	n := 0
	for _, p := range f.rows {
		if p.EmployeeID == employeeID && p.Date.Equal(date) {
			n++
		}
	}
	return n, nil
}

func (f *fakePunchRepo) Insert(ctx context.Context, p *models.Punch) (*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errInsert != nil {
		return nil, f.errInsert
	}
	cp := *p
	cp.ID = f.nextID
	f.nextID++
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePunchRepo) InsertBatch(ctx context.Context, batch []*models.Punch) (int64, error) {
	if f.errInsert != nil {
		return 0, f.errInsert
	}
	for _, p := range batch {
		if _, err := f.Insert(ctx, p); err != nil {
			return 0, err
		}
	}
	return int64(len(batch)), nil
}

func (f *fakePunchRepo) Update(ctx context.Context, id int64, fields punches.UpdateFields) (*models.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errUpdate != nil {
		return nil, f.errUpdate
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if fields.Justification != nil {
		p.Justification = *fields.Justification
	}
	if fields.Attachment != nil {
		p.Attachment = fields.Attachment
	}
	if fields.Role != nil {
		p.Role = *fields.Role
	}
	cp := *p
	return &cp, nil
}

func (f *fakePunchRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errDelete != nil {
		return f.errDelete
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeEventsRepo is an in-memory events.Repository.
type fakeEventsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.CorrectionEvent

	errInsert error
	errList   error
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{nextID: 1}
}

func (f *fakeEventsRepo) Insert(ctx context.Context, e *models.CorrectionEvent) (*models.CorrectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errInsert != nil {
		return nil, f.errInsert
	}
	cp := *e
	cp.ID = f.nextID
	cp.CreatedAt = time.Now().UTC()
	f.nextID++
	f.rows = append(f.rows, &cp)
	out := cp
	return &out, nil
}

func (f *fakeEventsRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]*models.CorrectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errList != nil {
		return nil, f.errList
	}
	var out []*models.CorrectionEvent
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].EmployeeID == employeeID {
			cp := *f.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeEmployeesRepo serves a fixed employee set.
type fakeEmployeesRepo struct {
	byID    map[int64]*models.Employee
	profile *models.EmployeeProfile
	err     error
}

func (f *fakeEmployeesRepo) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployeesRepo) FindByLogin(ctx context.Context, companyCode, login string) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.CompanyCode == companyCode && e.Login == login {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeEmployeesRepo) FindProfile(ctx context.Context, id int64) (*models.EmployeeProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil || f.profile.ID != id {
		return nil, common.ErrNotFound
	}
	return f.profile, nil
}

type fakeRepoManager struct {
	p *fakePunchRepo
	e *fakeEventsRepo
	f *fakeEmployeesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Punches(db dbx.DBTX) punches.Repository       { return m.p }
func (m *fakeRepoManager) Events(db dbx.DBTX) events.Repository         { return m.e }
func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository   { return m.f }
