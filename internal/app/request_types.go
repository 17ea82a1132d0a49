package app

// RegisterRequest is the payload for Register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the payload for CreateUser. GroupIDs populates the
// admin group for ADMIN users and the unit group for UNIT_MANAGER users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	GroupIDs []int  `json:"group_ids,omitempty"`
}

// CreateInvoiceRequest is the payload for CreateInvoice. Date is "YYYY-MM-DD"
// and Amount a decimal string. Any client-supplied fiscal year is ignored;
// the stored value is always derived from Date.
type CreateInvoiceRequest struct {
	Number int    `json:"invoice_number"`
	Date   string `json:"invoice_date"`
	Amount string `json:"invoice_amount"`
}

// UpdateInvoiceRequest patches an invoice; nil fields are left unchanged.
type UpdateInvoiceRequest struct {
	Date   *string `json:"invoice_date,omitempty"`
	Amount *string `json:"invoice_amount,omitempty"`
}

// ListInvoicesRequest filters ListInvoices. StartDate and EndDate only apply
// when both are set, matching the original query behavior.
type ListInvoicesRequest struct {
	FiscalYear string
	StartDate  string
	EndDate    string
	Search     string
	Page       int
	Limit      int
}
