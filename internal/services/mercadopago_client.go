package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/pkg/metrics"
	"listaai/pkg/utils"
)

// ChargeRequest is the body sent to POST /v1/payments.
type ChargeRequest struct {
	TransactionAmount float64             `json:"transaction_amount"`
	Description       string              `json:"description,omitempty"`
	PaymentMethodID   string              `json:"payment_method_id"`
	ExternalReference string              `json:"external_reference,omitempty"`
	DateOfExpiration  string              `json:"date_of_expiration,omitempty"`
	Payer             request_models.Payer `json:"payer"`
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, req ChargeRequest, idempotencyKey string) (*response_models.GatewayPayment, error)
	GetPayment(ctx context.Context, paymentID string) (*response_models.GatewayPayment, error)
}

// GatewayError is a non-2xx answer from the gateway. It matches
// utils.ErrGatewayError with errors.Is.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", utils.ErrGatewayError.Error(), e.Message)
}

func (e *GatewayError) Unwrap() error { return utils.ErrGatewayError }

type MercadoPagoClient struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
}

func NewMercadoPagoClient(accessToken, baseURL string, timeout time.Duration) *MercadoPagoClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &MercadoPagoClient{
		HTTP:        &http.Client{Timeout: timeout},
		AccessToken: accessToken,
		BaseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (c *MercadoPagoClient) CreatePayment(ctx context.Context, req ChargeRequest, idempotencyKey string) (*response_models.GatewayPayment, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Idempotency-Key", idempotencyKey)

	payment, err := c.do(httpReq)
	recordGatewayCall("create", err)
	return payment, err
}

func (c *MercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*response_models.GatewayPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}

	payment, err := c.do(httpReq)
	recordGatewayCall("get", err)
	return payment, err
}

func (c *MercadoPagoClient) do(req *http.Request) (*response_models.GatewayPayment, error) {
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGatewayError, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", utils.ErrGatewayError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: gatewayMessage(raw, resp.Status)}
	}

	var payment response_models.GatewayPayment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("%w: decode payment: %v", utils.ErrGatewayError, err)
	}
	payment.Raw = raw
	return &payment, nil
}

// gatewayMessage extracts {"message": "..."} from an error body.
func gatewayMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

func recordGatewayCall(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
}
