package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invoicedash/internal/common"
	"invoicedash/internal/repositories"
)

// CustomerHandlers handles HTTP requests for customers
type CustomerHandlers struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerHandlers creates a new customer handlers instance
func NewCustomerHandlers(customerRepo repositories.CustomerRepository) *CustomerHandlers {
	return &CustomerHandlers{customerRepo: customerRepo}
}

// ListCustomers handles GET /customers, which feeds the customer
// dropdown on the invoice form.
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.customerRepo.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
	})
}
