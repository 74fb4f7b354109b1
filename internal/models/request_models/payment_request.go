package request_models

type PayerIdentification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type PayerAddress struct {
	ZipCode      string `json:"zip_code,omitempty"`
	StreetName   string `json:"street_name,omitempty"`
	StreetNumber string `json:"street_number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	FederalUnit  string `json:"federal_unit,omitempty"`
}

type Payer struct {
	Name           string              `json:"name,omitempty"`
	FirstName      string              `json:"first_name,omitempty"`
	Email          string              `json:"email" binding:"required,email"`
	Identification PayerIdentification `json:"identification"`
	Address        *PayerAddress       `json:"address,omitempty"`
}

// PixPaymentRequest is the legacy /pix body; it is forwarded to the gateway
// with payment_method_id taken from paymentMethodId.
type PixPaymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount" binding:"required,gt=0"`
	Description       string  `json:"description"`
	PaymentMethodID   string  `json:"paymentMethodId"`
	UserID            string  `json:"userId"`
	PlanID            string  `json:"planId"`
	Payer             Payer   `json:"payer" binding:"required"`
}

type WebhookRequest struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
