package postgres

import (
	"errors"
	"strings"

	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConstraint = errors.New("constraint violation")
)

func storageErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		err = errors.Join(ErrConstraint, err)
	}
	return &watch.StorageError{Op: op, Err: err}
}
