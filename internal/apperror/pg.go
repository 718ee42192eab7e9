package apperror

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ClassifyPg maps Postgres constraint violations onto the taxonomy. Unique
// and foreign-key violations become conflicts, not-null violations become
// validation failures, and everything else passes through unchanged for the
// caller to treat as internal.
func ClassifyPg(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &Error{Kind: KindConflict, Msg: "a record with that value already exists", Err: err}
	case pgerrcode.ForeignKeyViolation:
		return &Error{Kind: KindConflict, Msg: "referenced record does not exist or is still referenced", Err: err}
	case pgerrcode.NotNullViolation:
		return &Error{Kind: KindValidation, Msg: "missing required field: " + pgErr.ColumnName, Err: err}
	}
	return err
}
