package app

// SessionResult is returned by Authenticate.
type SessionResult struct {
	UserID int    `json:"user_id"`
	SeqID  string `json:"seq_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// UserResult is the external view of an identity. The password hash is never
// exposed.
type UserResult struct {
	ID         int    `json:"id"`
	SeqID      string `json:"seq_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CreatedBy  *int   `json:"created_by,omitempty"`
	AdminGroup []int  `json:"admin_group,omitempty"`
	UnitGroup  []int  `json:"unit_group,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// UserListResult is returned by ListUsers.
type UserListResult struct {
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Users []UserResult `json:"users"`
}

// InvoiceResult is the external view of an invoice.
type InvoiceResult struct {
	ID         int    `json:"id"`
	Number     int    `json:"invoice_number"`
	Date       string `json:"invoice_date"`
	Amount     string `json:"invoice_amount"`
	FiscalYear string `json:"financial_year"`
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Invoices []InvoiceResult `json:"invoices"`
}
