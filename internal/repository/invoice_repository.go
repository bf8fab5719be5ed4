package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opsdash/liquidity-engine/internal/domain"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) ListSupplierByStatus(ctx context.Context, statuses []string) ([]*domain.SupplierInvoice, error) {
	query, args, err := sqlx.In(`
		SELECT id, invoice_number, supplier_name, amount, due_date, status, created_at
		FROM supplier_invoices
		WHERE status IN (?)
		ORDER BY created_at
	`, statuses)
	if err != nil {
		return nil, err
	}

	var invoices []*domain.SupplierInvoice
	err = r.db.SelectContext(ctx, &invoices, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *invoiceRepository) ListCustomerByStatus(ctx context.Context, statuses []string) ([]*domain.CustomerInvoice, error) {
	query, args, err := sqlx.In(`
		SELECT id, invoice_number, client_name, amount, status, created_at
		FROM customer_invoices
		WHERE status IN (?)
		ORDER BY created_at
	`, statuses)
	if err != nil {
		return nil, err
	}

	var invoices []*domain.CustomerInvoice
	err = r.db.SelectContext(ctx, &invoices, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *invoiceRepository) UpdateSupplierStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE supplier_invoices
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}

func (r *invoiceRepository) UpdateCustomerStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE customer_invoices
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}
