package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `id, invoice_number, invoice_date, invoice_amount, financial_year, created_at, updated_at`

type ledgerService struct {
	pool *pgxpool.Pool
}

// NewLedgerService constructs a LedgerService backed by PostgreSQL.
func NewLedgerService(pool *pgxpool.Pool) LedgerService {
	return &ledgerService{pool: pool}
}

func (s *ledgerService) Create(ctx context.Context, in InvoiceInput) (*Invoice, error) {
	if in.Number <= 0 {
		return nil, Errf(KindValidation, "invoice number must be positive")
	}
	if in.Date.IsZero() {
		return nil, Errf(KindValidation, "invoice date is required")
	}
	if !in.Amount.IsPositive() {
		return nil, Errf(KindValidation, "invoice amount must be positive")
	}
	fy := FiscalYear(in.Date)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := lockFiscalYear(ctx, tx, fy); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, tx, in.Number, fy, 0); err != nil {
		return nil, err
	}
	if err := s.checkOrdering(ctx, tx, in.Number, in.Date, fy, 0); err != nil {
		return nil, err
	}

	inv := &Invoice{Number: in.Number, Date: in.Date, Amount: in.Amount, FiscalYear: fy}
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, invoice_date, invoice_amount, financial_year)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		in.Number, in.Date, in.Amount, fy,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Errf(KindConflict, "invoice number %d already exists in financial year %s", in.Number, fy)
		}
		return nil, wrapStorage(err, "failed to insert invoice")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapStorage(err, "failed to commit transaction")
	}
	return inv, nil
}

func (s *ledgerService) Update(ctx context.Context, number int, patch InvoicePatch) (*Invoice, error) {
	if patch.Date == nil && patch.Amount == nil {
		return nil, Errf(KindValidation, "at least one field to update is required")
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, Errf(KindValidation, "invoice amount must be positive")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	existing, err := s.getByNumber(ctx, tx, number)
	if err != nil {
		return nil, err
	}

	date := existing.Date
	if patch.Date != nil {
		date = *patch.Date
	}
	amount := existing.Amount
	if patch.Amount != nil {
		amount = *patch.Amount
	}
	// The stored fiscal year is always the derived value, overriding any
	// stale value from a prior edit.
	fy := FiscalYear(date)

	if err := lockFiscalYear(ctx, tx, fy); err != nil {
		return nil, err
	}
	if fy != existing.FiscalYear {
		if err := s.checkDuplicate(ctx, tx, number, fy, existing.ID); err != nil {
			return nil, err
		}
	}
	if err := s.checkOrdering(ctx, tx, number, date, fy, existing.ID); err != nil {
		return nil, err
	}

	inv := &Invoice{ID: existing.ID, Number: number, Date: date, Amount: amount, FiscalYear: fy}
	err = tx.QueryRow(ctx, `
		UPDATE invoices
		SET invoice_date = $1, invoice_amount = $2, financial_year = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at`,
		date, amount, fy, existing.ID,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Errf(KindConflict, "invoice number %d already exists in financial year %s", number, fy)
		}
		return nil, wrapStorage(err, "failed to update invoice %d", number)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapStorage(err, "failed to commit transaction")
	}
	return inv, nil
}

func (s *ledgerService) Delete(ctx context.Context, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, Errf(KindValidation, "invoice ids are required")
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM invoices WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, wrapStorage(err, "failed to delete invoices")
	}
	return ct.RowsAffected(), nil
}

func (s *ledgerService) List(ctx context.Context, f InvoiceFilter) ([]Invoice, int, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.FiscalYear != "" {
		conds = append(conds, "financial_year = "+arg(f.FiscalYear))
	}
	if f.From != nil && f.To != nil {
		conds = append(conds, "invoice_date >= "+arg(*f.From))
		conds = append(conds, "invoice_date <= "+arg(*f.To))
	}
	if f.Number != nil {
		conds = append(conds, "invoice_number = "+arg(*f.Number))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := s.pool.QueryRow(ctx, "SELECT count(*) FROM invoices"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to count invoices")
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT %s FROM invoices%s ORDER BY invoice_number, invoice_date LIMIT %s OFFSET %s",
		invoiceColumns, where, arg(limit), arg((page-1)*limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapStorage(err, "failed to list invoices")
	}
	defer rows.Close()

	invoices := []Invoice{}
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.Amount,
			&inv.FiscalYear, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, wrapStorage(err, "failed to scan invoice row")
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapStorage(err, "failed to read invoice rows")
	}
	return invoices, total, nil
}

// getByNumber targets an invoice for update. Numbers repeat across fiscal
// years, so the most recent year bearing the number wins.
func (s *ledgerService) getByNumber(ctx context.Context, tx pgx.Tx, number int) (*Invoice, error) {
	inv := &Invoice{}
	err := tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE invoice_number = $1
		ORDER BY financial_year DESC
		LIMIT 1`, invoiceColumns), number,
	).Scan(&inv.ID, &inv.Number, &inv.Date, &inv.Amount, &inv.FiscalYear, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errf(KindNotFound, "invoice %d not found", number)
		}
		return nil, wrapStorage(err, "failed to read invoice %d", number)
	}
	return inv, nil
}

// checkDuplicate rejects a write when another record already holds
// (number, fiscalYear). excludeID skips the record being updated.
func (s *ledgerService) checkDuplicate(ctx context.Context, tx pgx.Tx, number int, fy string, excludeID int) error {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE invoice_number = $1 AND financial_year = $2 AND id <> $3
		)`, number, fy, excludeID).Scan(&exists)
	if err != nil {
		return wrapStorage(err, "failed to check for duplicate invoice")
	}
	if exists {
		return Errf(KindConflict, "invoice number %d already exists in financial year %s", number, fy)
	}
	return nil
}

// checkOrdering loads the chronological neighbors (number-1 and number+1 in
// the same fiscal year) and enforces date/number co-monotonicity.
func (s *ledgerService) checkOrdering(ctx context.Context, tx pgx.Tx, number int, date time.Time, fy string, excludeID int) error {
	prev, err := s.neighbor(ctx, tx, number-1, fy, excludeID)
	if err != nil {
		return err
	}
	next, err := s.neighbor(ctx, tx, number+1, fy, excludeID)
	if err != nil {
		return err
	}
	return checkNeighbors(date, prev, next)
}

func (s *ledgerService) neighbor(ctx context.Context, tx pgx.Tx, number int, fy string, excludeID int) (*Invoice, error) {
	inv := &Invoice{}
	err := tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE invoice_number = $1 AND financial_year = $2 AND id <> $3`, invoiceColumns),
		number, fy, excludeID,
	).Scan(&inv.ID, &inv.Number, &inv.Date, &inv.Amount, &inv.FiscalYear, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStorage(err, "failed to read neighbor invoice %d", number)
	}
	return inv, nil
}

// checkNeighbors enforces the ordering invariant: a predecessor's date must
// strictly precede the proposed date, a successor's must strictly follow it.
func checkNeighbors(date time.Time, prev, next *Invoice) error {
	if prev != nil && !date.After(prev.Date) {
		return Errf(KindOutOfOrder, "date must be after invoice %d dated %s",
			prev.Number, prev.Date.Format("2006-01-02"))
	}
	if next != nil && !date.Before(next.Date) {
		return Errf(KindOutOfOrder, "date must be before invoice %d dated %s",
			next.Number, next.Date.Format("2006-01-02"))
	}
	return nil
}

// lockFiscalYear serializes invoice writes per fiscal year for the duration
// of the transaction, closing the check-then-act window between the neighbor
// lookups and the write. The unique constraint remains as the backstop.
func lockFiscalYear(ctx context.Context, tx pgx.Tx, fy string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, fy); err != nil {
		return wrapStorage(err, "failed to lock financial year %s", fy)
	}
	return nil
}
