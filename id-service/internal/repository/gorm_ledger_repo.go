package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/pkg/database"
	"github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

const insertBatchSize = 200

var _ LedgerRepository = (*GormLedgerRepository)(nil)

// GormLedgerRepository implements LedgerRepository using GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM-based ledger.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) Enabled() bool { return true }

// Record stores every id of a batch in one transaction.
func (r *GormLedgerRepository) Record(ctx context.Context, batchID domain.BatchID, source string, ids []typeid.Any) error {
	l := log.Ctx(ctx)

	if len(ids) == 0 {
		return nil
	}
	models := domain.IssuedToModel(batchID, source, ids)
	result := r.db.WithContext(ctx).CreateInBatches(&models, insertBatchSize)
	if result.Error != nil {
		l.Error().Err(result.Error).Str("batch_id", batchID.String()).Msg("failed to record issued ids")
		return result.Error
	}
	l.Debug().Str("batch_id", batchID.String()).Int(log.FieldCount, len(ids)).Msg("issued ids recorded")
	return nil
}

// Find looks up the ledger entry of id.
func (r *GormLedgerRepository) Find(ctx context.Context, id typeid.Any) (*domain.IssuedID, error) {
	l := log.Ctx(ctx)

	var model domain.IssuedIDModel
	result := r.db.WithContext(ctx).
		Where("prefix = ? AND payload = ?", id.Prefix(), id.Bytes()).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotIssued
		}
		l.Error().Err(result.Error).Str(log.FieldID, id.String()).Msg("failed to look up issued id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// CountBatch counts the ids recorded under batchID.
func (r *GormLedgerRepository) CountBatch(ctx context.Context, batchID domain.BatchID) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.IssuedIDModel{}).
		Where("batch_id = ?", database.NewColumn(batchID)).
		Count(&count)
	return int(count), result.Error
}
