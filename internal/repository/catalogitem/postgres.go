package catalogitem

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Upsert(ctx context.Context, rec Record) (*Record, error) {
	const q = `
INSERT INTO catalog_items (id, category, title, description, slug, base_price, discount_price, attributes)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, COALESCE($8, '{}'::jsonb))
ON CONFLICT (slug) DO UPDATE SET
    category = EXCLUDED.category,
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    base_price = EXCLUDED.base_price,
    discount_price = EXCLUDED.discount_price,
    attributes = EXCLUDED.attributes
RETURNING id::text, created_at
`
	var discount decimal.NullDecimal
	if rec.DiscountPrice != nil {
		discount = decimal.NullDecimal{Decimal: *rec.DiscountPrice, Valid: true}
	}
	out := rec
	err := r.pool.QueryRow(ctx, q,
		rec.ID,
		rec.Category,
		rec.Title,
		rec.Description,
		rec.Slug,
		rec.BasePrice,
		discount,
		rec.Attributes,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("catalog repo: upsert slug=%s error=%v", rec.Slug, err)
		return nil, err
	}
	r.logger.Printf("catalog repo: upserted slug=%s id=%s", out.Slug, out.ID)
	return &out, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Record, error) {
	const q = `
SELECT id::text, category, title, COALESCE(description, ''), slug, base_price, discount_price, attributes, created_at
FROM catalog_items
WHERE slug = $1
`
	rec, err := scanRecord(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get slug=%s error=%v", slug, err)
		return nil, err
	}
	return rec, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]Record, error) {
	const q = `
SELECT id::text, category, title, COALESCE(description, ''), slug, base_price, discount_price, attributes, created_at
FROM catalog_items
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("catalog repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var discount decimal.NullDecimal
	if err := row.Scan(
		&rec.ID,
		&rec.Category,
		&rec.Title,
		&rec.Description,
		&rec.Slug,
		&rec.BasePrice,
		&discount,
		&rec.Attributes,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if discount.Valid {
		d := discount.Decimal
		rec.DiscountPrice = &d
	}
	return &rec, nil
}
