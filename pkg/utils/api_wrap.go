package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// An empty message means the wrapped error text is returned to the caller.
type errorMapping struct {
	target  error
	code    int
	message string
}

var serviceErrors = []errorMapping{
	{ErrEmailAlreadyExists, http.StatusBadRequest, "User with this email already exists"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{ErrForbidden, http.StatusForbidden, "Forbidden: you do not own this resource"},
	{ErrUserNotFound, http.StatusNotFound, "User not found"},
	{ErrListNotFound, http.StatusNotFound, "List not found"},
	{ErrItemNotFound, http.StatusNotFound, "Item not found"},
	{ErrPaymentNotFound, http.StatusNotFound, "Payment not found"},
	{ErrPlanNotFound, http.StatusNotFound, "Plan not found"},
	{ErrCheckoutNotFound, http.StatusNotFound, "Checkout not found"},
	{ErrItemAlreadyClaimed, http.StatusConflict, "Item already claimed"},
	{ErrInvalidCheckoutTransition, http.StatusConflict, ""},
	{ErrInvalidCheckoutRequest, http.StatusBadRequest, ""},
	{ErrInvalidInput, http.StatusBadRequest, ""},
	{ErrInvalidImage, http.StatusBadRequest, ""},
	{ErrGatewayError, http.StatusBadGateway, ""},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.code >= http.StatusInternalServerError {
			slog.Warn("upstream failure", "error", err, "trace_id", c.GetString("trace_id"))
		}
		RespondError(c, m.code, msg)
		return
	}

	if errors.Is(err, ErrDatabaseError) {
		slog.Error("database error", "error", err, "trace_id", c.GetString("trace_id"))
	} else {
		slog.Error("unknown error", "error", err, "trace_id", c.GetString("trace_id"))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
