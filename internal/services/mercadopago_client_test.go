package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listaai/internal/models/request_models"
	"listaai/pkg/utils"
)

func TestMercadoPagoClient_CreatePayment(t *testing.T) {
	var got ChargeRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":555,"status":"pending","transaction_amount":0.01,
			"point_of_interaction":{"transaction_data":{"qr_code":"000201","qr_code_base64":"iVBOR","ticket_url":"https://mp/t"}}}`))
	}))
	defer srv.Close()

	client := NewMercadoPagoClient("token-1", srv.URL, time.Second)
	payment, err := client.CreatePayment(context.Background(), ChargeRequest{
		TransactionAmount: 0.01,
		Description:       "Reserva",
		PaymentMethodID:   "pix",
		Payer:             request_models.Payer{Email: "a@b.com"},
	}, "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-1", headers.Get("Authorization"))
	assert.Equal(t, "idem-1", headers.Get("X-Idempotency-Key"))
	assert.Equal(t, "pix", got.PaymentMethodID)
	assert.Equal(t, int64(555), payment.ID)
	assert.Equal(t, "000201", payment.PointOfInteraction.TransactionData.QRCode)
	assert.Contains(t, string(payment.Raw), `"id":555`)
}

func TestMercadoPagoClient_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid payer email","status":400}`))
	}))
	defer srv.Close()

	_, err := NewMercadoPagoClient("t", srv.URL, time.Second).GetPayment(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrGatewayError))

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "invalid payer email", gwErr.Message)
}

func TestMercadoPagoClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewMercadoPagoClient("t", srv.URL, time.Second).GetPayment(context.Background(), "1")
	assert.True(t, errors.Is(err, utils.ErrGatewayError))
}
