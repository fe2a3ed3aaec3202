package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"invoicedash/internal/common"
	"invoicedash/internal/forms"
	"invoicedash/internal/services"
)

// invoiceListPath is where the dashboard sends the client after a
// successful create or update.
const invoiceListPath = "/dashboard/invoices"

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
	}
}

// CreateInvoice handles POST /invoices
// On success the client is redirected to the invoice listing view.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var form forms.InvoiceForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if _, err := h.invoiceService.CreateInvoice(ctx, &form); err != nil {
		if ve, ok := common.AsValidationError(err); ok {
			return common.SendValidationError(c, ve.Fields)
		}
		return common.SendServerError(c, "Failed to create invoice")
	}

	return c.Redirect(http.StatusSeeOther, invoiceListPath)
}

// UpdateInvoice handles PUT /invoices/:id
// The id is taken from the route, never from the submitted payload.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid invoice ID")
	}

	var form forms.InvoiceForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.invoiceService.UpdateInvoice(ctx, id, &form); err != nil {
		if ve, ok := common.AsValidationError(err); ok {
			return common.SendValidationError(c, ve.Fields)
		}
		return common.SendServerError(c, "Failed to update invoice")
	}

	return c.Redirect(http.StatusSeeOther, invoiceListPath)
}

// DeleteInvoice handles DELETE /invoices/:id
// No redirect: the caller is already on the listing view.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid invoice ID")
	}

	if err := h.invoiceService.DeleteInvoice(ctx, id); err != nil {
		return common.SendServerError(c, "Failed to delete invoice")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	search := c.QueryParam("query")
	limit := 10
	offset := 0

	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}

	invoices, err := h.invoiceService.ListInvoices(ctx, search, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoice handles GET /invoices/:id (prefills the edit form)
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid invoice ID")
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// DashboardSummary handles GET /dashboard/summary
func (h *InvoiceHandlers) DashboardSummary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.invoiceService.DashboardSummary(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to compute dashboard summary")
	}

	return c.JSON(http.StatusOK, summary)
}
