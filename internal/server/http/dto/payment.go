package dto

// AllowanceResponse reports whether an approval transaction is needed before
// payment. Amounts are smallest-unit integers in decimal notation.
type AllowanceResponse struct {
	ApprovalRequired bool   `json:"approval_required"`
	Approved         bool   `json:"approved"`
	Allowance        string `json:"allowance,omitempty"`
	Required         string `json:"required"`
}
