package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pontodigital/pontod/internal/common"
)

// Postgres error classes, per the SQLSTATE listing.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translateStoreError maps database failures onto the service error
// vocabulary so transports never inspect driver errors directly.
func translateStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return &common.ValidationError{Msg: "invalid reference data"}
		case pgUniqueViolation:
			return fmt.Errorf("%w: a similar request already exists", common.ErrConflict)
		}
	}
	return fmt.Errorf("%w: %v", common.ErrInternal, err)
}
