package quote

import (
	"context"
	"time"

	"github.com/glazeworks/window-storefront/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Export is one row of the quote_exports ledger.
type Export struct {
	ID           uuid.UUID         `gorm:"column:id;primaryKey"`
	CartID       string            `gorm:"column:cart_id;not null"`
	StorageType  enums.StorageType `gorm:"column:storage_type;not null"`
	PromotedFrom *string           `gorm:"column:promoted_from"`
	Link         string            `gorm:"column:link;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;not null"`
}

func (Export) TableName() string { return "quote_exports" }

// Ledger records produced share links.
type Ledger interface {
	Record(ctx context.Context, entry *Export) error
}

// Repository persists the ledger with GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts an export row.
func (r *Repository) Record(ctx context.Context, entry *Export) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByCart returns a cart's exports, newest first.
func (r *Repository) ListByCart(ctx context.Context, cartID string) ([]Export, error) {
	var rows []Export
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteBefore removes exports created before cutoff and reports how many went.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&Export{})
	return res.RowsAffected, res.Error
}
