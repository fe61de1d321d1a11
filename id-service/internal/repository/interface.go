package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

var (
	ErrNotIssued = errors.New("identifier was not issued by this service")
)

// LedgerRepository records issued identifiers.
type LedgerRepository interface {
	// Enabled reports whether lookups mean anything.
	Enabled() bool
	Record(ctx context.Context, batchID domain.BatchID, source string, ids []typeid.Any) error
	Find(ctx context.Context, id typeid.Any) (*domain.IssuedID, error)
	CountBatch(ctx context.Context, batchID domain.BatchID) (int, error)
}

// NoopLedgerRepository is used when no database is configured.
type NoopLedgerRepository struct{}

func (NoopLedgerRepository) Enabled() bool { return false }

func (NoopLedgerRepository) Record(context.Context, domain.BatchID, string, []typeid.Any) error {
	return nil
}

func (NoopLedgerRepository) Find(context.Context, typeid.Any) (*domain.IssuedID, error) {
	return nil, ErrNotIssued
}

func (NoopLedgerRepository) CountBatch(context.Context, domain.BatchID) (int, error) {
	return 0, nil
}
