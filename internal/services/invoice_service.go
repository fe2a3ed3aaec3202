package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/forms"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
)

const (
	listCacheTTL    = 5 * time.Minute
	summaryCacheTTL = 10 * time.Minute
)

// InvoiceServiceInterface defines the interface for the invoice service.
// Each mutation is a single validate, transform, persist, invalidate
// sequence; there is no state between invocations.
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, form *forms.InvoiceForm) (uuid.UUID, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, form *forms.InvoiceForm) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error)
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	RefreshDashboardSummary(ctx context.Context) error
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService) InvoiceServiceInterface {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
	}
}

// CreateInvoice validates the form, converts the amount to cents,
// stamps the current date and inserts the row. The database assigns the
// id. Cached invoice views are invalidated only after the insert
// succeeds.
func (s *invoiceService) CreateInvoice(ctx context.Context, form *forms.InvoiceForm) (uuid.UUID, error) {
	parsed, err := form.Parse()
	if err != nil {
		return uuid.Nil, err
	}

	date := time.Now().Format("2006-01-02")

	id, err := s.invoiceRepo.Create(ctx, parsed.CustomerID, parsed.AmountCents, parsed.Status, date)
	if err != nil {
		return uuid.Nil, &common.PersistenceError{Op: "create invoice", Err: err}
	}

	if err := s.cacheSvc.InvalidateInvoiceViews(ctx); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// UpdateInvoice validates the form and rewrites customer_id, amount and
// status for the given row. The id comes from the routing context, not
// the payload; date and id are never touched. A row that does not exist
// is indistinguishable from a successful update.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, form *forms.InvoiceForm) error {
	parsed, err := form.Parse()
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Update(ctx, id, parsed.CustomerID, parsed.AmountCents, parsed.Status); err != nil {
		return &common.PersistenceError{Op: "update invoice", Err: err}
	}

	return s.cacheSvc.InvalidateInvoiceViews(ctx)
}

// DeleteInvoice removes the row and invalidates cached views. Deleting
// an id with no matching row succeeds.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return &common.PersistenceError{Op: "delete invoice", Err: err}
	}

	return s.cacheSvc.InvalidateInvoiceViews(ctx)
}

// GetInvoiceByID retrieves an invoice, for prefilling the edit form.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// ListInvoices serves the listing view through the cache.
func (s *invoiceService) ListInvoices(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error) {
	cached, err := s.cacheSvc.GetInvoiceList(ctx, search, limit, offset)
	if err != nil {
		log.Printf("WARN: invoice list cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	invoices, err := s.invoiceRepo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetInvoiceList(ctx, search, limit, offset, invoices, listCacheTTL); err != nil {
		log.Printf("WARN: invoice list cache write failed: %v", err)
	}

	return invoices, nil
}

// DashboardSummary serves the dashboard card figures through the cache.
func (s *invoiceService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	cached, err := s.cacheSvc.GetDashboardSummary(ctx)
	if err != nil {
		log.Printf("WARN: dashboard summary cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := s.invoiceRepo.SummaryTotals(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetDashboardSummary(ctx, summary, summaryCacheTTL); err != nil {
		log.Printf("WARN: dashboard summary cache write failed: %v", err)
	}

	return summary, nil
}

// RefreshDashboardSummary recomputes the summary and rewrites the
// cache. Run from the background scheduler.
func (s *invoiceService) RefreshDashboardSummary(ctx context.Context) error {
	summary, err := s.invoiceRepo.SummaryTotals(ctx)
	if err != nil {
		return err
	}
	return s.cacheSvc.SetDashboardSummary(ctx, summary, summaryCacheTTL)
}
