package storage

import (
	"database/sql"

	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

func InitStore(dbConnStr string) (*PostgresStore, error) {
	store, err := NewPostgresStore(dbConnStr)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// expectAffected maps an UPDATE or DELETE that touched no rows to ErrNotFound
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// wrapWrite maps unique-key violations to ErrConflict and wraps the rest.
func wrapWrite(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrap(storage.ErrConflict, msg)
	}
	return errors.Wrap(err, msg)
}
