package catalogitem

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the persisted, flattened form of a catalog item. Shared fields
// are columns; variant-specific fields live in the attributes document.
type Record struct {
	ID            string
	Category      string
	Title         string
	Description   string
	Slug          string
	BasePrice     decimal.Decimal
	DiscountPrice *decimal.Decimal
	Attributes    map[string]interface{}
	CreatedAt     time.Time
}

// Repository persists catalog item records.
type Repository interface {
	Upsert(ctx context.Context, rec Record) (*Record, error)
	GetBySlug(ctx context.Context, slug string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
}
