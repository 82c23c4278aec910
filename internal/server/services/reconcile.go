// Package services contains the server-side business logic of the punch
// ledger: batch reconciliation, single registration, correction events,
// sync projection, login, and attachment presigning.
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
	"github.com/pontodigital/pontod/internal/timex"
)

// nowFunc is a seam for tests.
var nowFunc = time.Now

// ReconcileResult reports the outcome of one batch merge.
type ReconcileResult struct {
	Inserted int
	Skipped  int
}

// ReconcileService merges externally-sourced punch batches into the ledger
// without creating duplicates. Resubmitting an identical batch inserts zero
// new records.
type ReconcileService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	windowDays int
	logger     logging.Logger
}

// NewReconcileService constructs a ReconcileService. windowDays bounds the
// ledger window loaded for fingerprint comparison.
func NewReconcileService(db *sql.DB, repos repomanager.RepositoryManager, windowDays int, logger logging.Logger) *ReconcileService {
	return &ReconcileService{
		db:         db,
		repos:      repos,
		windowDays: windowDays,
		logger:     logger.With("module", "reconcile"),
	}
}

// Reconcile filters the batch to genuinely new punches by fingerprint,
// normalizes them, and writes them in a single batched insert. The ordinal
// role is not assigned on this path; it stays empty until a rectification or
// reclassification pass touches the punch.
func (s *ReconcileService) Reconcile(ctx context.Context, batch []punch.RawPunch) (*ReconcileResult, error) {
	if len(batch) == 0 {
		return nil, common.NewValidationError("pontos")
	}

	repo := s.repos.Punches(s.db)

	since := timex.DateOnly(timex.ToServerLocal(nowFunc())).AddDate(0, 0, -s.windowDays)
	existing, err := repo.FindSince(ctx, since)
	if err != nil {
		s.logger.Error(ctx, "loading ledger window", "err", err)
		return nil, fmt.Errorf("%w: loading ledger", common.ErrInternal)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[ledgerFingerprint(p)] = struct{}{}
	}

	accepted := make([]*models.Punch, 0, len(batch))
	skipped := 0
	receipt := timex.ToServerLocal(nowFunc())

	for _, raw := range batch {
		fp := punch.Fingerprint(raw.FingerprintInput())
		if _, dup := seen[fp]; dup {
			skipped++
			continue
		}

		normalized, err := punch.Normalize(raw)
		if err != nil {
			return nil, err
		}
		normalized.Processo = receipt

		// also guards against duplicates inside the same batch
		seen[fp] = struct{}{}
		accepted = append(accepted, &normalized)
	}

	if len(accepted) == 0 {
		s.logger.Info(ctx, "batch already reconciled", "skipped", skipped)
		return &ReconcileResult{Inserted: 0, Skipped: skipped}, nil
	}

	n, err := repo.InsertBatch(ctx, accepted)
	if err != nil {
		s.logger.Error(ctx, "batch insert", "err", err)
		return nil, fmt.Errorf("%w: inserting punches", common.ErrInternal)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no records inserted", common.ErrInternal)
	}

	s.logger.Info(ctx, "batch reconciled", "inserted", n, "skipped", skipped)
	return &ReconcileResult{Inserted: int(n), Skipped: skipped}, nil
}

// ledgerFingerprint keys a stored punch the same way a raw submission is
// keyed. Stored rows carry server-local wall time, so the canonical offset is
// reversed to recover the submission timestamp the fingerprint expects.
func ledgerFingerprint(p *models.Punch) string {
	local := p.Date
	if hh, mm, ok := punch.ParseClock(p.ClockTime); ok {
		local = local.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
	}
	return punch.Fingerprint(punch.FingerprintInput{
		EmployeeID: p.EmployeeID,
		Timestamp:  local.Add(-timex.ServerUTCOffset),
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	})
}
