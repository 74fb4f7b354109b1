package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"listaai/internal/models/request_models"
	"listaai/internal/services"
	"listaai/pkg/utils"
)

type PaymentController struct {
	paymentService  services.PaymentServiceInterface
	planService     services.PlanServiceInterface
	checkoutService services.CheckoutServiceInterface
}

func NewPaymentController(
	paymentService services.PaymentServiceInterface,
	planService services.PlanServiceInterface,
	checkoutService services.CheckoutServiceInterface,
) *PaymentController {
	return &PaymentController{
		paymentService:  paymentService,
		planService:     planService,
		checkoutService: checkoutService,
	}
}

// CreatePix godoc
// @Summary Create a PIX charge
// @Description Forwards the charge to Mercado Pago. A repeated X-Idempotency-Key returns the charge created the first time.
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Idempotency-Key header string false "Idempotency key"
// @Param request body request_models.PixPaymentRequest true "Charge payload"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /server/pix [post]
func (p *PaymentController) CreatePix(c *gin.Context) {
	var request request_models.PixPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := p.paymentService.CreatePix(c.Request.Context(), request, c.GetHeader("X-Idempotency-Key"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment created")
}

// VerifyPayment godoc
// @Summary Check a payment status
// @Tags Payments
// @Produce json
// @Param id path string true "Gateway payment ID"
// @Success 200 {object} utils.APIResponse
// @Router /server/payments/{id} [get]
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	resp, err := p.paymentService.VerifyPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, resp.Message)
}

// HandleWebhook acknowledges every well-formed notification, otherwise the
// gateway keeps retrying. A checkout waiting on the payment is advanced.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	var request request_models.WebhookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if request.Data.ID == "" {
		request.Data.ID = c.Query("data.id")
	}
	if request.Type == "" {
		request.Type = c.Query("type")
	}

	if err := p.checkoutService.HandleWebhook(c.Request.Context(), request); err != nil {
		slog.Error("webhook processing failed", "payment_id", request.Data.ID, "error", err)
	}

	utils.RespondSuccess(c, nil, "received")
}

func (p *PaymentController) GetPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "")
}
