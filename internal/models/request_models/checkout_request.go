package request_models

type CheckoutPayer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

type StartCheckoutRequest struct {
	Kind   string        `json:"kind" binding:"required,oneof=claim subscription"`
	ListID string        `json:"listId"`
	ItemID string        `json:"itemId"`
	UserID string        `json:"userId"`
	PlanID string        `json:"planId"`
	Payer  CheckoutPayer `json:"payer"`
}

// PayCheckoutRequest optionally replaces the payer data before a new charge.
type PayCheckoutRequest struct {
	Payer *CheckoutPayer `json:"payer"`
}
