package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/platform/apierr"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// mapStoreError translates store failures into the API taxonomy. Anything it
// does not recognize is returned unchanged and surfaces as a 500.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound()
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apierr.NotFound()
		case pgUniqueViolation:
			return apierr.InvalidInput("Duplicate value")
		}
	}
	return err
}
