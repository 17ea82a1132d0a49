package app

import "context"

// ApplicationService is the single interface the transport adapters call.
// It decouples HTTP handling from business logic: implementations contain no
// status codes, no JSON, and no display logic of any kind. The requester is
// always an explicit parameter resolved from the caller's auth context.
type ApplicationService interface {
	// Register bootstraps a SUPERADMIN account with no creator.
	Register(ctx context.Context, req RegisterRequest) (*UserResult, error)

	// Authenticate verifies credentials and returns the session identity.
	Authenticate(ctx context.Context, email, password string) (*SessionResult, error)

	// GetUser returns a user's profile by id.
	GetUser(ctx context.Context, id int) (*UserResult, error)

	// CreateUser creates an identity on behalf of requesterID, subject to the
	// parent-role creation rule.
	CreateUser(ctx context.Context, requesterID int, req CreateUserRequest) (*UserResult, error)

	// ReassignRole changes a user's role (SUPERADMIN only) and returns the
	// resulting sequence id.
	ReassignRole(ctx context.Context, requesterID, targetID int, role string) (string, error)

	// DeleteUser removes a user (SUPERADMIN or ADMIN only).
	DeleteUser(ctx context.Context, requesterID, targetID int) error

	// ListUsers returns the page of identities visible to requesterID.
	ListUsers(ctx context.Context, requesterID, page, limit int) (*UserListResult, error)

	// CreateInvoice validates and stores a new invoice.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error)

	// UpdateInvoice patches the invoice with the given number.
	UpdateInvoice(ctx context.Context, number int, req UpdateInvoiceRequest) (*InvoiceResult, error)

	// DeleteInvoices removes invoices by id and reports how many were deleted.
	DeleteInvoices(ctx context.Context, ids []int) (int64, error)

	// ListInvoices returns a filtered, paginated invoice listing.
	ListInvoices(ctx context.Context, req ListInvoicesRequest) (*InvoiceListResult, error)
}
