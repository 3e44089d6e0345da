package order

import (
	"context"

	"orderworks/internal/domain"
)

// Repository persists submitted order drafts.
type Repository interface {
	Save(ctx context.Context, draft domain.OrderDraft) (string, error)
	GetByRefCode(ctx context.Context, refCode string) (*domain.OrderDraft, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]domain.OrderDraft, error)
}
