package dto

// UpdateClientRequest rewrites a client's basic identity fields.
type UpdateClientRequest struct {
	Name   string `json:"name" binding:"required"`
	Street string `json:"street" binding:"required"`
}

// UpdateCardTermsRequest rewrites the schedule of a client's active card.
// The installment amount is re-derived, never accepted from the caller.
type UpdateCardTermsRequest struct {
	TermDays  int    `json:"termDays" binding:"required,gt=0"`
	Frequency string `json:"frequency" binding:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY"`
}
