package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a ledger record. FiscalYear is always derived from Date; the
// (Number, FiscalYear) pair is globally unique.
type Invoice struct {
	ID         int
	Number     int
	Date       time.Time
	Amount     decimal.Decimal
	FiscalYear string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvoiceInput is the payload for LedgerService.Create.
type InvoiceInput struct {
	Number int
	Date   time.Time
	Amount decimal.Decimal
}

// InvoicePatch carries the updatable invoice fields; nil means unchanged.
type InvoicePatch struct {
	Date   *time.Time
	Amount *decimal.Decimal
}

// InvoiceFilter narrows LedgerService.List. Zero values mean no filtering;
// Page and Limit default to 1 and 10.
type InvoiceFilter struct {
	FiscalYear string
	From       *time.Time
	To         *time.Time
	Number     *int
	Page       int
	Limit      int
}

// LedgerService stores invoices behind the sequence validator: every write is
// checked against its chronological neighbors before it touches storage.
type LedgerService interface {
	// Create validates and persists a new invoice. The fiscal year is derived
	// from the date; a duplicate (number, fiscal year) is a Conflict and a
	// date inversion against an existing neighbor is OutOfOrder.
	Create(ctx context.Context, in InvoiceInput) (*Invoice, error)

	// Update patches the invoice with the given number, re-deriving the fiscal
	// year from the effective date and re-running the neighbor checks in the
	// destination year, excluding the record itself. When the number exists in
	// more than one fiscal year the most recent one is targeted.
	Update(ctx context.Context, number int, patch InvoicePatch) (*Invoice, error)

	// Delete removes invoices by id and returns how many were deleted.
	// Numbers are never reassigned; the resulting gaps do not affect future
	// ordering checks.
	Delete(ctx context.Context, ids []int) (int64, error)

	// List returns invoices matching the filter in invoice-number order,
	// along with the total count before pagination.
	List(ctx context.Context, f InvoiceFilter) ([]Invoice, int, error)
}
