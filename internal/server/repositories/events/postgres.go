// Package events provides the PostgreSQL-backed correction-event repository.
package events

import (
	"context"
	"fmt"

	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.CorrectionEvent) (*models.CorrectionEvent, error) {
	query := `INSERT INTO ponto_eventos
		(emp, funcionario_id, tipo, data_inicio, data_fim, motivo, observacao, anexo, aprovacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.CompanyCode, e.EmployeeID, e.Type, e.WindowStart, e.WindowEnd,
		e.Title, e.Description, e.Attachment, e.Approval,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*models.CorrectionEvent, error) {
	query := `SELECT id, emp, funcionario_id, tipo, data_inicio, data_fim, motivo,
		observacao, anexo, aprovacao, aprovador_id, aprovado_em, created_at
		FROM ponto_eventos WHERE funcionario_id = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CorrectionEvent
	for rows.Next() {
		var e models.CorrectionEvent
		if err := rows.Scan(
			&e.ID, &e.CompanyCode, &e.EmployeeID, &e.Type, &e.WindowStart, &e.WindowEnd,
			&e.Title, &e.Description, &e.Attachment, &e.Approval,
			&e.ApproverID, &e.ApprovedAt, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
