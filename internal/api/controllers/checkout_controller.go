package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listaai/internal/models/request_models"
	"listaai/internal/services"
	"listaai/pkg/utils"
)

type CheckoutController struct {
	checkoutService services.CheckoutServiceInterface
}

func NewCheckoutController(checkoutService services.CheckoutServiceInterface) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// Start godoc
// @Summary Start a checkout
// @Description Validates the payer and creates the PIX charge. kind is "claim" (listId, itemId) or "subscription" (planId, optional userId).
// @Tags Checkouts
// @Accept json
// @Produce json
// @Param request body request_models.StartCheckoutRequest true "Checkout payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /server/checkouts [post]
func (ch *CheckoutController) Start(c *gin.Context) {
	var req request_models.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "kind must be claim or subscription")
		return
	}

	resp, err := ch.checkoutService.Start(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, resp.Message)
}

func (ch *CheckoutController) Get(c *gin.Context) {
	resp, err := ch.checkoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, resp.Message)
}

func (ch *CheckoutController) Verify(c *gin.Context) {
	resp, err := ch.checkoutService.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, resp.Message)
}

// Pay accepts an empty body; a payer object replaces the stored one.
func (ch *CheckoutController) Pay(c *gin.Context) {
	var req request_models.PayCheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	resp, err := ch.checkoutService.Pay(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, resp.Message)
}

func (ch *CheckoutController) Retry(c *gin.Context) {
	resp, err := ch.checkoutService.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, resp.Message)
}
