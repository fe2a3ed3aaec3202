package models

import (
	"github.com/google/uuid"
)

// Invoice is a row in the invoices table. Amount is stored as an
// integer number of cents. Date is assigned once at creation and never
// updated; ID is generated by the database on insert.
type Invoice struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Amount     int64     `json:"amount" db:"amount"`
	Status     string    `json:"status" db:"status"`
	Date       string    `json:"date" db:"date"`
}

// InvoiceWithCustomer is an invoice joined with customer display fields
// for the listing view.
type InvoiceWithCustomer struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
}

// DashboardSummary holds the card figures on the dashboard home page.
type DashboardSummary struct {
	InvoiceCount      int   `json:"invoice_count"`
	CustomerCount     int   `json:"customer_count"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
	TotalPendingCents int64 `json:"total_pending_cents"`
}
