package app

import (
	"context"
	"strconv"
	"time"

	"invoice-admin/internal/core"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type appService struct {
	directory core.DirectoryService
	resolver  *core.Resolver
	ledger    core.LedgerService
}

// NewAppService wires the core services into the ApplicationService facade.
func NewAppService(directory core.DirectoryService, resolver *core.Resolver, ledger core.LedgerService) ApplicationService {
	return &appService{directory: directory, resolver: resolver, ledger: ledger}
}

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*UserResult, error) {
	u, err := s.directory.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return toUserResult(u), nil
}

func (s *appService) Authenticate(ctx context.Context, email, password string) (*SessionResult, error) {
	u, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &SessionResult{
		UserID: u.ID,
		SeqID:  u.SeqID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
	}, nil
}

func (s *appService) GetUser(ctx context.Context, id int) (*UserResult, error) {
	u, err := s.directory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResult(u), nil
}

func (s *appService) CreateUser(ctx context.Context, requesterID int, req CreateUserRequest) (*UserResult, error) {
	requester, err := s.directory.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	role, err := core.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	u, err := s.directory.Create(ctx, requester, core.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		GroupIDs: req.GroupIDs,
	})
	if err != nil {
		return nil, err
	}
	return toUserResult(u), nil
}

func (s *appService) ReassignRole(ctx context.Context, requesterID, targetID int, roleStr string) (string, error) {
	requester, err := s.directory.GetByID(ctx, requesterID)
	if err != nil {
		return "", err
	}
	role, err := core.ParseRole(roleStr)
	if err != nil {
		return "", err
	}
	return s.directory.ReassignRole(ctx, requester, targetID, role)
}

func (s *appService) DeleteUser(ctx context.Context, requesterID, targetID int) error {
	requester, err := s.directory.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	return s.directory.Delete(ctx, requester, targetID)
}

func (s *appService) ListUsers(ctx context.Context, requesterID, page, limit int) (*UserListResult, error) {
	requester, err := s.directory.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	visible, err := s.resolver.VisibleTo(ctx, requester)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > len(visible) {
		start = len(visible)
	}
	end := start + limit
	if end > len(visible) {
		end = len(visible)
	}

	users := make([]UserResult, 0, end-start)
	for _, u := range visible[start:end] {
		users = append(users, *toUserResult(&u))
	}
	return &UserListResult{Total: len(visible), Page: page, Limit: limit, Users: users}, nil
}

func (s *appService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	inv, err := s.ledger.Create(ctx, core.InvoiceInput{Number: req.Number, Date: date, Amount: amount})
	if err != nil {
		return nil, err
	}
	return toInvoiceResult(inv), nil
}

func (s *appService) UpdateInvoice(ctx context.Context, number int, req UpdateInvoiceRequest) (*InvoiceResult, error) {
	var patch core.InvoicePatch
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		patch.Amount = &amount
	}
	inv, err := s.ledger.Update(ctx, number, patch)
	if err != nil {
		return nil, err
	}
	return toInvoiceResult(inv), nil
}

func (s *appService) DeleteInvoices(ctx context.Context, ids []int) (int64, error) {
	return s.ledger.Delete(ctx, ids)
}

func (s *appService) ListInvoices(ctx context.Context, req ListInvoicesRequest) (*InvoiceListResult, error) {
	f := core.InvoiceFilter{FiscalYear: req.FiscalYear, Page: req.Page, Limit: req.Limit}
	if req.StartDate != "" && req.EndDate != "" {
		from, err := parseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		to, err := parseDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		f.From, f.To = &from, &to
	}
	if req.Search != "" {
		n, err := strconv.Atoi(req.Search)
		if err != nil {
			return nil, core.Errf(core.KindValidation, "invoice number search must be numeric, got %q", req.Search)
		}
		f.Number = &n
	}

	invoices, total, err := s.ledger.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]InvoiceResult, 0, len(invoices))
	for i := range invoices {
		out = append(out, *toInvoiceResult(&invoices[i]))
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return &InvoiceListResult{Total: total, Page: page, Invoices: out}, nil
}

func toUserResult(u *core.User) *UserResult {
	return &UserResult{
		ID:         u.ID,
		SeqID:      u.SeqID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		CreatedBy:  u.CreatedBy,
		AdminGroup: u.AdminGroup,
		UnitGroup:  u.UnitGroup,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

func toInvoiceResult(inv *core.Invoice) *InvoiceResult {
	return &InvoiceResult{
		ID:         inv.ID,
		Number:     inv.Number,
		Date:       inv.Date.Format(dateLayout),
		Amount:     inv.Amount.StringFixed(2),
		FiscalYear: inv.FiscalYear,
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, core.Errf(core.KindValidation, "invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, core.Errf(core.KindValidation, "invalid amount %q", s)
	}
	return d, nil
}
