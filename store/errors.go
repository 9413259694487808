package store

import (
	"errors"

	"github.com/lib/pq"

	"storefront-backend/model"
)

// ErrInsufficientStock is returned by the conditional decrement when the
// requested quantity exceeds the stock still available at write time.
var ErrInsufficientStock = errors.New("insufficient stock")

// Postgres error codes we classify on.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// classify wraps write-race signals from Postgres as transient conflicts so
// the retry layer can tell them apart from business failures. Everything
// else passes through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected:
			return &model.TransientConflictError{Err: err}
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}
