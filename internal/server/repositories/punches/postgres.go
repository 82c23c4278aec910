// Package punches provides the PostgreSQL-backed punch ledger repository.
package punches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pontodigital/pontod/internal/common"
	"github.com/pontodigital/pontod/internal/dbx"
	"github.com/pontodigital/pontod/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const punchColumns = `id, funcionario_id, emp, dat, hora, locacao_id, origem, lat, lng,
	endereco, distancia_m, status, justificativa, processo, ori, tip, anexo, created_at, deleted_at`

func scanPunch(row interface{ Scan(...any) error }) (*models.Punch, error) {
	var p models.Punch
	var role sql.NullString
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.CompanyCode, &p.Date, &p.ClockTime, &p.LocationID,
		&p.Origin, &p.Latitude, &p.Longitude, &p.Address, &p.DistanceMeters,
		&p.Status, &p.Justification, &p.Processo, &p.OriginalTime, &role,
		&p.Attachment, &p.CreatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = role.String
	return &p, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Punch, error) {
	query := `SELECT ` + punchColumns + ` FROM ponto_batidas WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanPunch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindByEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]*models.Punch, error) {
	query := `SELECT ` + punchColumns + ` FROM ponto_batidas
		WHERE funcionario_id = $1 AND dat >= $2 AND dat <= $3 AND deleted_at IS NULL
		ORDER BY id DESC`

	return r.queryPunches(ctx, query, employeeID, from, to)
}

func (r *PostgresRepository) FindSince(ctx context.Context, since time.Time) ([]*models.Punch, error) {
	query := `SELECT ` + punchColumns + ` FROM ponto_batidas
		WHERE dat >= $1 AND deleted_at IS NULL
		ORDER BY id DESC`

	return r.queryPunches(ctx, query, since)
}

func (r *PostgresRepository) FindForDay(ctx context.Context, employeeID int64, date time.Time) ([]*models.Punch, error) {
	query := `SELECT ` + punchColumns + ` FROM ponto_batidas
		WHERE funcionario_id = $1 AND dat = $2 AND deleted_at IS NULL
		ORDER BY hora ASC, id ASC`

	return r.queryPunches(ctx, query, employeeID, date)
}

func (r *PostgresRepository) queryPunches(ctx context.Context, query string, args ...any) ([]*models.Punch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ExistsAt(ctx context.Context, employeeID int64, date time.Time, clockTime string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM ponto_batidas
		WHERE funcionario_id = $1 AND dat = $2 AND hora = $3 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, employeeID, date, clockTime).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountForDay(ctx context.Context, employeeID int64, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM ponto_batidas
		WHERE funcionario_id = $1 AND dat = $2 AND deleted_at IS NULL`

	var n int
	if err := r.db.QueryRowContext(ctx, query, employeeID, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Punch) (*models.Punch, error) {
	query := `INSERT INTO ponto_batidas
		(funcionario_id, emp, dat, hora, locacao_id, origem, lat, lng, endereco,
		 distancia_m, status, justificativa, processo, ori, tip, anexo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.EmployeeID, p.CompanyCode, p.Date, p.ClockTime, p.LocationID, p.Origin,
		p.Latitude, p.Longitude, p.Address, p.DistanceMeters, p.Status,
		p.Justification, p.Processo, p.OriginalTime, nullIfEmpty(p.Role), p.Attachment,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) InsertBatch(ctx context.Context, batch []*models.Punch) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO ponto_batidas
		(funcionario_id, emp, dat, hora, locacao_id, origem, lat, lng, endereco,
		 distancia_m, status, justificativa, processo, ori, tip, anexo) VALUES `)

	const cols = 16
	for i, p := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteString(")")
		args = append(args,
			p.EmployeeID, p.CompanyCode, p.Date, p.ClockTime, p.LocationID, p.Origin,
			p.Latitude, p.Longitude, p.Address, p.DistanceMeters, p.Status,
			p.Justification, p.Processo, p.OriginalTime, nullIfEmpty(p.Role), p.Attachment)
	}

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*models.Punch, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if fields.Justification != nil {
		args = append(args, *fields.Justification)
		set = append(set, fmt.Sprintf("justificativa = $%d", len(args)))
	}
	if fields.Attachment != nil {
		args = append(args, *fields.Attachment)
		set = append(set, fmt.Sprintf("anexo = $%d", len(args)))
	}
	if fields.Role != nil {
		args = append(args, *fields.Role)
		set = append(set, fmt.Sprintf("tip = $%d", len(args)))
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE ponto_batidas SET %s WHERE id = $%d AND deleted_at IS NULL
		RETURNING `+punchColumns, strings.Join(set, ", "), len(args))

	p, err := scanPunch(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ponto_batidas SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
