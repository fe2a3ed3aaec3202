package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicedash/internal/common"
	"invoicedash/internal/forms"
	"invoicedash/internal/models"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, form *forms.InvoiceForm) (uuid.UUID, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, form *forms.InvoiceForm) error {
	args := m.Called(ctx, id, form)
	return args.Error(0)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, search string, limit, offset int) ([]*models.InvoiceWithCustomer, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvoiceWithCustomer), args.Error(1)
}

func (m *MockInvoiceService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockInvoiceService) RefreshDashboardSummary(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newFormRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestCreateInvoice_RedirectsToListing(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	svc.On("CreateInvoice", mock.Anything, &forms.InvoiceForm{
		CustomerID: "c1", Amount: "12.50", Status: "pending",
	}).Return(uuid.New(), nil)

	req := newFormRequest(http.MethodPost, "/v1/invoices", url.Values{
		"customerId": {"c1"},
		"amount":     {"12.50"},
		"status":     {"pending"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/invoices", rec.Header().Get(echo.HeaderLocation))
	svc.AssertExpectations(t)
}

func TestCreateInvoice_ValidationFailure(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	svc.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(uuid.Nil, common.NewValidationError("status", "must be one of: pending, paid"))

	req := newFormRequest(http.MethodPost, "/v1/invoices", url.Values{
		"customerId": {"c1"},
		"amount":     {"10"},
		"status":     {"overdue"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, rec.Body.String(), "status")
}

func TestCreateInvoice_PersistenceFailure(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	svc.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(uuid.Nil, &common.PersistenceError{Op: "create invoice"})

	req := newFormRequest(http.MethodPost, "/v1/invoices", url.Values{
		"customerId": {"c1"},
		"amount":     {"10"},
		"status":     {"paid"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVER_ERROR")
}

func TestUpdateInvoice_UsesRouteID(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)
	id := uuid.New()

	svc.On("UpdateInvoice", mock.Anything, id, &forms.InvoiceForm{
		CustomerID: "c1", Amount: "20", Status: "paid",
	}).Return(nil)

	// An id smuggled into the payload is ignored; only the route
	// parameter identifies the row.
	req := newFormRequest(http.MethodPut, "/v1/invoices/"+id.String(), url.Values{
		"id":         {uuid.New().String()},
		"customerId": {"c1"},
		"amount":     {"20"},
		"status":     {"paid"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, h.UpdateInvoice(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/invoices", rec.Header().Get(echo.HeaderLocation))
	svc.AssertExpectations(t)
}

func TestUpdateInvoice_InvalidID(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	req := newFormRequest(http.MethodPut, "/v1/invoices/not-a-uuid", url.Values{})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.UpdateInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteInvoice_NoRedirect(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)
	id := uuid.New()

	svc.On("DeleteInvoice", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/invoices/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, h.DeleteInvoice(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
	svc.AssertExpectations(t)
}

func TestListInvoices_DefaultsAndPayload(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	invoices := []*models.InvoiceWithCustomer{
		{ID: uuid.New(), CustomerName: "Amy Burns", Amount: 1250, Status: "pending", Date: time.Now().Format("2006-01-02")},
	}
	svc.On("ListInvoices", mock.Anything, "", 10, 0).Return(invoices, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListInvoices(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Amy Burns")
}

func TestDashboardSummary(t *testing.T) {
	e := echo.New()
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc)

	svc.On("DashboardSummary", mock.Anything).Return(&models.DashboardSummary{
		InvoiceCount: 4, CustomerCount: 2, TotalPaidCents: 5000, TotalPendingCents: 1250,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.DashboardSummary(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_paid_cents")
}
