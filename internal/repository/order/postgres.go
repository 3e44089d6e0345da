package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Save writes the draft and its lines in one transaction. A duplicate
// reference code surfaces as domain.ErrAlreadyExists.
func (r *postgresRepo) Save(ctx context.Context, draft domain.OrderDraft) (string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (id, ref_code, customer_email, shipping_address, billing_address,
                    payment_id, payment_method, coupon_code, coupon_amount,
                    ordered_at, being_delivered, received, refund_requested, refund_granted, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id::text
`
	var customerEmail *string
	if draft.Customer != nil {
		customerEmail = &draft.Customer.Email
	}
	var paymentID, paymentMethod *string
	if draft.Payment != nil {
		paymentID = &draft.Payment.ID
		paymentMethod = &draft.Payment.Method
	}
	var couponCode *string
	var couponAmount decimal.NullDecimal
	if draft.Coupon != nil {
		couponCode = &draft.Coupon.Code
		couponAmount = decimal.NullDecimal{Decimal: draft.Coupon.Amount, Valid: true}
	}

	var orderID string
	err = tx.QueryRow(ctx, insertOrder,
		uuid.NewString(),
		draft.RefCode,
		customerEmail,
		draft.ShippingAddress,
		draft.BillingAddress,
		paymentID,
		paymentMethod,
		couponCode,
		couponAmount,
		draft.OrderedAt,
		draft.BeingDelivered,
		draft.Received,
		draft.RefundRequested,
		draft.RefundGranted,
		draft.Total,
	).Scan(&orderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: save ref=%s error=%v", draft.RefCode, err)
		return "", err
	}

	const insertLine = `
INSERT INTO order_lines (order_id, item_id, title, slug, unit_price, quantity, ordered)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7)
`
	for _, line := range draft.Lines {
		if _, err := tx.Exec(ctx, insertLine, orderID, line.ItemID, line.Title, line.Slug, line.UnitPrice, line.Quantity, line.Ordered); err != nil {
			r.logger.Printf("order repo: save line ref=%s title=%s error=%v", draft.RefCode, line.Title, err)
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	r.logger.Printf("order repo: saved ref=%s lines=%d", draft.RefCode, len(draft.Lines))
	return orderID, nil
}

const orderColumns = `
SELECT id::text, ref_code, customer_email,
       shipping_address, billing_address,
       payment_id, payment_method, coupon_code, coupon_amount,
       ordered_at, being_delivered, received, refund_requested, refund_granted, total
FROM orders
`

func (r *postgresRepo) GetByRefCode(ctx context.Context, refCode string) (*domain.OrderDraft, error) {
	row := r.pool.QueryRow(ctx, orderColumns+"WHERE ref_code = $1", refCode)
	draft, orderID, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get ref=%s error=%v", refCode, err)
		return nil, err
	}
	lines, err := r.fetchLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	draft.Lines = lines
	return draft, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerEmail string) ([]domain.OrderDraft, error) {
	rows, err := r.pool.Query(ctx, orderColumns+"WHERE customer_email = $1 ORDER BY ordered_at DESC", customerEmail)
	if err != nil {
		r.logger.Printf("order repo: list customer=%s error=%v", customerEmail, err)
		return nil, err
	}
	defer rows.Close()

	var drafts []domain.OrderDraft
	var ids []string
	for rows.Next() {
		draft, orderID, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
		ids = append(ids, orderID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, id := range ids {
		lines, err := r.fetchLines(ctx, id)
		if err != nil {
			return nil, err
		}
		drafts[i].Lines = lines
	}
	return drafts, nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT COALESCE(item_id::text, ''), title, COALESCE(slug, ''), unit_price, quantity, ordered
FROM order_lines
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		r.logger.Printf("order repo: fetch lines order=%s error=%v", orderID, err)
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ItemID, &line.Title, &line.Slug, &line.UnitPrice, &line.Quantity, &line.Ordered); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.OrderDraft, string, error) {
	var draft domain.OrderDraft
	var orderID string
	var customerEmail, paymentID, paymentMethod, couponCode *string
	var couponAmount decimal.NullDecimal
	if err := row.Scan(
		&orderID,
		&draft.RefCode,
		&customerEmail,
		&draft.ShippingAddress,
		&draft.BillingAddress,
		&paymentID,
		&paymentMethod,
		&couponCode,
		&couponAmount,
		&draft.OrderedAt,
		&draft.BeingDelivered,
		&draft.Received,
		&draft.RefundRequested,
		&draft.RefundGranted,
		&draft.Total,
	); err != nil {
		return nil, "", err
	}
	if customerEmail != nil {
		draft.Customer = &domain.Customer{Email: *customerEmail}
	}
	if paymentID != nil {
		ref := domain.PaymentRef{ID: *paymentID}
		if paymentMethod != nil {
			ref.Method = *paymentMethod
		}
		draft.Payment = &ref
	}
	if couponCode != nil && couponAmount.Valid {
		draft.Coupon = &domain.Coupon{Code: *couponCode, Amount: couponAmount.Decimal}
	}
	return &draft, orderID, nil
}
