package utils

import "errors"

var (
	ErrDatabaseError = errors.New("database error")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")

	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrListNotFound       = errors.New("list not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemAlreadyClaimed = errors.New("item already claimed")
	ErrInvalidImage       = errors.New("invalid image")

	ErrPaymentNotFound = errors.New("payment not found")
	ErrPlanNotFound    = errors.New("plan not found")
	ErrGatewayError    = errors.New("payment gateway error")

	ErrCheckoutNotFound          = errors.New("checkout not found")
	ErrInvalidCheckoutRequest    = errors.New("invalid checkout request")
	ErrInvalidCheckoutTransition = errors.New("invalid checkout transition")
)
