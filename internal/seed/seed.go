package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"orderworks/internal/domain"
	catalogrepo "orderworks/internal/repository/catalogitem"
	custrepo "orderworks/internal/repository/customer"
	"orderworks/internal/service/catalog"
)

type itemSeed struct {
	Category   string
	Attributes catalog.Attributes
}

// Apply inserts basic seed data for manual testing. It is idempotent: items
// upsert on slug and the demo customer insert tolerates duplicates.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	factory := catalog.NewFactory()
	items := catalogrepo.NewPostgres(pool, nil)

	seeds := []itemSeed{
		{
			Category: "book",
			Attributes: catalog.Attributes{
				"title":       "Django for Beginners",
				"description": "Build websites with Python and Django",
				"price":       "39.99",
				"author":      "William Vincent",
				"pages":       356,
			},
		},
		{
			Category: "electronics",
			Attributes: catalog.Attributes{
				"title":           "Laptop Pro",
				"description":     "Thin and light developer laptop",
				"price":           "999.99",
				"discount_price":  "899.99",
				"brand":           "Acme",
				"warranty_months": 24,
			},
		},
		{
			Category: "clothing",
			Attributes: catalog.Attributes{
				"title":    "Logo T-Shirt",
				"price":    "19.99",
				"size":     "M",
				"color":    "navy",
				"material": "cotton",
			},
		},
	}

	for _, s := range seeds {
		if err := upsertItem(ctx, factory, items, s); err != nil {
			return fmt.Errorf("seed item %v: %w", s.Attributes["title"], err)
		}
	}

	if err := ensureDemoCustomer(ctx, pool); err != nil {
		return fmt.Errorf("seed demo customer: %w", err)
	}
	return nil
}

func upsertItem(ctx context.Context, factory *catalog.Factory, items catalogrepo.Repository, s itemSeed) error {
	item, err := factory.Create(s.Category, s.Attributes)
	if err != nil {
		return err
	}
	core := item.Core()
	rec := catalogrepo.Record{
		ID:          core.ID,
		Category:    s.Category,
		Title:       core.Title,
		Description: core.Description,
		Slug:        core.Slug,
		BasePrice:   core.BasePrice,
		Attributes:  variantAttributes(s.Attributes),
	}
	if core.DiscountPrice != nil {
		d := *core.DiscountPrice
		rec.DiscountPrice = &d
	}
	_, err = items.Upsert(ctx, rec)
	return err
}

// variantAttributes strips the keys the item core already captured.
func variantAttributes(attrs catalog.Attributes) map[string]interface{} {
	core := map[string]bool{
		"title": true, "description": true, "price": true,
		"discount_price": true, "slug": true,
	}
	out := map[string]interface{}{}
	for k, v := range attrs {
		if !core[k] {
			out[k] = v
		}
	}
	return out
}

func ensureDemoCustomer(ctx context.Context, pool *pgxpool.Pool) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	customers := custrepo.NewPostgres(pool, nil)
	_, err = customers.Create(ctx, domain.Customer{
		Email:        "demo@orderworks.local",
		PasswordHash: string(hashed),
		FirstName:    "Demo",
		LastName:     "Buyer",
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil
	}
	return err
}
