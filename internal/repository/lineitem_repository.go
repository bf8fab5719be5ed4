package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opsdash/liquidity-engine/internal/domain"
)

type lineItemRepository struct {
	db *sqlx.DB
}

func NewLineItemRepository(db *sqlx.DB) LineItemRepository {
	return &lineItemRepository{db: db}
}

const insertLineItemQuery = `
	INSERT INTO liquidity_line_items (id, week_id, item_type, description, expected_amount, actual_amount, due_date, payment_date, status, linked_invoice_id, linked_invoice_type, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func (r *lineItemRepository) Create(ctx context.Context, item *domain.LiquidityLineItem) error {
	_, err := r.db.ExecContext(ctx, insertLineItemQuery,
		item.ID,
		item.WeekID,
		item.ItemType,
		item.Description,
		item.ExpectedAmount,
		item.ActualAmount,
		item.DueDate,
		item.PaymentDate,
		item.Status,
		item.LinkedInvoiceID,
		item.LinkedInvoiceType,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (r *lineItemRepository) CreateBatch(ctx context.Context, items []*domain.LiquidityLineItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err = tx.ExecContext(ctx, insertLineItemQuery,
			item.ID,
			item.WeekID,
			item.ItemType,
			item.Description,
			item.ExpectedAmount,
			item.ActualAmount,
			item.DueDate,
			item.PaymentDate,
			item.Status,
			item.LinkedInvoiceID,
			item.LinkedInvoiceType,
			item.CreatedAt,
			item.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *lineItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityLineItem, error) {
	query := `
		SELECT id, week_id, item_type, description, expected_amount, actual_amount, due_date, payment_date, status, linked_invoice_id, linked_invoice_type, created_at, updated_at
		FROM liquidity_line_items
		WHERE id = $1
	`

	var item domain.LiquidityLineItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *lineItemRepository) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]*domain.LiquidityLineItem, error) {
	query := `
		SELECT id, week_id, item_type, description, expected_amount, actual_amount, due_date, payment_date, status, linked_invoice_id, linked_invoice_type, created_at, updated_at
		FROM liquidity_line_items
		WHERE week_id = $1
		ORDER BY created_at
	`

	var items []*domain.LiquidityLineItem
	err := r.db.SelectContext(ctx, &items, query, weekID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *lineItemRepository) ListPaymentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LiquidityLineItem, error) {
	query := `
		SELECT id, week_id, item_type, description, expected_amount, actual_amount, due_date, payment_date, status, linked_invoice_id, linked_invoice_type, created_at, updated_at
		FROM liquidity_line_items
		WHERE item_type = 'payment' AND status <> 'completed' AND due_date >= $1 AND due_date < $2
		ORDER BY due_date
	`

	var items []*domain.LiquidityLineItem
	err := r.db.SelectContext(ctx, &items, query, from, to)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *lineItemRepository) Update(ctx context.Context, id uuid.UUID, update *domain.LineItemUpdate) error {
	query := `
		UPDATE liquidity_line_items
		SET actual_amount = COALESCE($2, actual_amount),
		    status = COALESCE($3, status),
		    payment_date = COALESCE($4, payment_date),
		    updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		id,
		update.ActualAmount,
		update.Status,
		update.PaymentDate,
		time.Now().UTC(),
	)

	return err
}

func (r *lineItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM liquidity_line_items WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
