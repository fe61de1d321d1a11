package domain

import (
	"time"

	"github.com/weiawesome/prefixid/pkg/database"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

// Batch is the kind of the identifier given to every issued batch.
type Batch struct{ typeid.Width16 }

func (Batch) Prefix() string { return "batch" }

// BatchID identifies one generate request.
type BatchID = typeid.ID[Batch]

// IssuedIDModel is the GORM model for the issued_ids table. The payload is
// stored raw; the prefix column names its kind.
type IssuedIDModel struct {
	Prefix    string                 `gorm:"type:varchar(63);primaryKey"`
	Payload   []byte                 `gorm:"size:64;primaryKey"`
	Source    string                 `gorm:"type:varchar(32);not null"`
	BatchID   database.Column[Batch] `gorm:"index;not null"`
	CreatedAt time.Time              `gorm:"autoCreateTime"`
}

// TableName specifies the table name for IssuedIDModel.
func (IssuedIDModel) TableName() string {
	return "issued_ids"
}

// IssuedID is a ledger entry.
type IssuedID struct {
	Prefix    string
	Payload   []byte
	Source    string
	BatchID   BatchID
	CreatedAt time.Time
}

// ToDomain converts IssuedIDModel to IssuedID.
func (m *IssuedIDModel) ToDomain() *IssuedID {
	return &IssuedID{
		Prefix:    m.Prefix,
		Payload:   m.Payload,
		Source:    m.Source,
		BatchID:   m.BatchID.ID,
		CreatedAt: m.CreatedAt,
	}
}

// IssuedToModel builds ledger rows for ids issued in one batch.
func IssuedToModel(batchID BatchID, source string, ids []typeid.Any) []IssuedIDModel {
	models := make([]IssuedIDModel, len(ids))
	for i, id := range ids {
		models[i] = IssuedIDModel{
			Prefix:  id.Prefix(),
			Payload: id.Bytes(),
			Source:  source,
			BatchID: database.NewColumn(batchID),
		}
	}
	return models
}
