package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"invoicedash/internal/common"
)

// InvoiceForm is the shared validation schema for invoice create and
// update submissions. The id and date never appear here: the id is a
// route parameter and the date is assigned server-side at creation.
type InvoiceForm struct {
	CustomerID string `form:"customerId" json:"customerId" validate:"required"`
	Amount     string `form:"amount" json:"amount" validate:"required"`
	Status     string `form:"status" json:"status" validate:"required,oneof=pending paid"`
}

// ParsedInvoice is the validated, transformed form: the amount has been
// converted to an integer number of cents.
type ParsedInvoice struct {
	CustomerID  string
	AmountCents int64
	Status      string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures under the form field names the dashboard submits.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Parse validates the form and applies the cents transform. On failure
// it returns a common.ValidationError with per-field reasons and no
// transformation is usable. The amount is only checked for being a
// number; zero and negative values pass through unchanged.
func (f *InvoiceForm) Parse() (*ParsedInvoice, error) {
	fields := map[string]string{}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	var cents int64
	if _, present := fields["amount"]; !present {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
		if err != nil {
			fields["amount"] = "must be a number"
		} else {
			cents = amount.Mul(decimal.NewFromInt(100)).IntPart()
		}
	}

	if len(fields) > 0 {
		return nil, &common.ValidationError{Fields: fields}
	}

	return &ParsedInvoice{
		CustomerID:  f.CustomerID,
		AmountCents: cents,
		Status:      f.Status,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
