package repositories

import (
	"context"

	"invoicedash/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock's
// pool satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type InvoiceRepository interface {
	Create(ctx context.Context, customerID string, amountCents int64, status, date string) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, customerID string, amountCents int64, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, query string, limit, offset int) ([]*models.InvoiceWithCustomer, error)
	SummaryTotals(ctx context.Context) (*models.DashboardSummary, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create inserts a new invoice row. The id is assigned by the database,
// never by the caller.
func (r *invoiceRepo) Create(ctx context.Context, customerID string, amountCents int64, status, date string) (uuid.UUID, error) {
	query := `
		INSERT INTO invoices (customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, customerID, amountCents, status, date).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Update sets customer_id, amount and status for the matching row. The
// date column is never touched. Zero rows affected is not an error.
func (r *invoiceRepo) Update(ctx context.Context, id uuid.UUID, customerID string, amountCents int64, status string) error {
	query := `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, customerID, amountCents, status, id)
	return err
}

// Delete removes the matching row. Deleting a nonexistent id succeeds.
func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, customer_id, amount, status, date
		FROM invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.CustomerID, &invoice.Amount, &invoice.Status, &invoice.Date)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error) {
	query := `
		SELECT invoices.id, invoices.customer_id, customers.name, customers.email, invoices.amount, invoices.status, invoices.date
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE customers.name ILIKE $1 OR customers.email ILIKE $1 OR invoices.status ILIKE $1
		ORDER BY invoices.date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, "%"+search+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.InvoiceWithCustomer
	for rows.Next() {
		invoice := &models.InvoiceWithCustomer{}
		if err := rows.Scan(&invoice.ID, &invoice.CustomerID, &invoice.CustomerName, &invoice.CustomerEmail, &invoice.Amount, &invoice.Status, &invoice.Date); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// SummaryTotals aggregates the dashboard card figures in one query.
func (r *invoiceRepo) SummaryTotals(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM invoices),
			(SELECT COUNT(*) FROM customers),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)
		FROM invoices
	`
	err := r.db.QueryRow(ctx, query).Scan(&summary.InvoiceCount, &summary.CustomerCount, &summary.TotalPaidCents, &summary.TotalPendingCents)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
