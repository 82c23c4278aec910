// Package employees provides the PostgreSQL-backed employee repository.
package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const employeeColumns = `id, empresa, login, nome, senha, locacao_id, funcao_id, created_at, deleted_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.CompanyCode, &e.Login, &e.Name, &e.PasswordHash,
		&e.LocationID, &e.FunctionID, &e.CreatedAt, &e.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM funcionarios WHERE id = $1 AND deleted_at IS NULL`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) FindByLogin(ctx context.Context, companyCode, login string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM funcionarios
		WHERE empresa = $1 AND login = $2 AND deleted_at IS NULL`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, companyCode, login))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) FindProfile(ctx context.Context, id int64) (*models.EmployeeProfile, error) {
	query := `SELECT f.id, f.empresa, f.login, f.nome, f.senha, f.locacao_id, f.funcao_id,
		f.created_at, f.deleted_at,
		COALESCE(l.nome, 'N/A'), COALESCE(fn.nome, 'N/A')
		FROM funcionarios f
		LEFT JOIN locacoes l ON l.id = f.locacao_id AND l.deleted_at IS NULL
		LEFT JOIN funcoes fn ON fn.id = f.funcao_id
		WHERE f.id = $1 AND f.deleted_at IS NULL`

	var p models.EmployeeProfile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CompanyCode, &p.Login, &p.Name, &p.PasswordHash,
		&p.LocationID, &p.FunctionID, &p.CreatedAt, &p.DeletedAt,
		&p.LocationName, &p.FunctionName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}
