package response_models

import (
	"encoding/json"
	"time"
)

type TransactionData struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}

type PointOfInteraction struct {
	Type            string          `json:"type,omitempty"`
	TransactionData TransactionData `json:"transaction_data"`
}

// GatewayPayment is the subset of a Mercado Pago payment the app reads.
type GatewayPayment struct {
	ID                 int64               `json:"id"`
	Status             string              `json:"status"`
	StatusDetail       string              `json:"status_detail,omitempty"`
	TransactionAmount  float64             `json:"transaction_amount"`
	Description        string              `json:"description,omitempty"`
	PaymentMethodID    string              `json:"payment_method_id,omitempty"`
	ExternalReference  string              `json:"external_reference,omitempty"`
	DateCreated        string              `json:"date_created,omitempty"`
	DateApproved       string              `json:"date_approved,omitempty"`
	PointOfInteraction *PointOfInteraction `json:"point_of_interaction,omitempty"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

type PixPaymentResponse struct {
	Success            bool                `json:"success"`
	Result             *GatewayPayment     `json:"result"`
	PointOfInteraction *PointOfInteraction `json:"point_of_interaction"`
}

type VerifyPaymentResponse struct {
	Status   string          `json:"status"`
	Approved bool            `json:"approved"`
	Message  string          `json:"message"`
	Data     *GatewayPayment `json:"data"`
}

type PlanResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Period      string  `json:"period"`
	PeriodCount int     `json:"periodCount"`
}

type CheckoutResponse struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	Step          string     `json:"step"`
	ListID        string     `json:"listId,omitempty"`
	ItemID        string     `json:"itemId,omitempty"`
	UserID        string     `json:"userId,omitempty"`
	PlanID        string     `json:"planId,omitempty"`
	PayerName     string     `json:"payerName"`
	PayerEmail    string     `json:"payerEmail"`
	Amount        float64    `json:"amount"`
	PaymentID     string     `json:"paymentId,omitempty"`
	QRCode        string     `json:"qrCode,omitempty"`
	QRCodeBase64  string     `json:"qrCodeBase64,omitempty"`
	TicketURL     string     `json:"ticketUrl,omitempty"`
	GatewayStatus string     `json:"gatewayStatus,omitempty"`
	Message       string     `json:"message,omitempty"`
	Error         string     `json:"error,omitempty"`
	CloseAfterMs  int64      `json:"closeAfterMs,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	FinalizedAt   *time.Time `json:"finalizedAt,omitempty"`
}
