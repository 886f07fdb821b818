package services

import (
	"fmt"
	"net/http"
)

// Reason identifies why a mutation was rejected.
type Reason string

const (
	ReasonNotFound            Reason = "not_found"
	ReasonDayClosed           Reason = "day_closed"
	ReasonDayAlreadyOpen      Reason = "day_already_open"
	ReasonDayAlreadyClosed    Reason = "day_already_closed"
	ReasonCartEmpty           Reason = "cart_empty"
	ReasonNoPaymentMethod     Reason = "no_payment_method"
	ReasonInvalidPayment      Reason = "invalid_payment_method"
	ReasonOutOfStock          Reason = "out_of_stock"
	ReasonInsufficientStock   Reason = "insufficient_stock"
	ReasonOrderNotPending     Reason = "order_not_pending"
	ReasonInvalidSeed         Reason = "invalid_seed"
	ReasonInvalidSelection    Reason = "invalid_selection"
	ReasonPaymentInsufficient Reason = "payment_insufficient"
	ReasonPaymentInProgress   Reason = "payment_in_progress"
	ReasonPaymentClosed       Reason = "payment_closed"
)

// ServiceError is returned by every rejected mutation. Two errors match under
// errors.Is when their reasons are equal, so callers compare against the
// exported sentinels regardless of the message.
type ServiceError struct {
	Reason     Reason
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Reason == e.Reason
}

// withMessage copies a sentinel with a more specific message.
func withMessage(base *ServiceError, format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Reason:     base.Reason,
		StatusCode: base.StatusCode,
		Message:    fmt.Sprintf(format, args...),
	}
}

var (
	ErrNotFound            = &ServiceError{Reason: ReasonNotFound, StatusCode: http.StatusNotFound, Message: "Not found"}
	ErrDayClosed           = &ServiceError{Reason: ReasonDayClosed, StatusCode: http.StatusConflict, Message: "Business day is closed"}
	ErrDayAlreadyOpen      = &ServiceError{Reason: ReasonDayAlreadyOpen, StatusCode: http.StatusConflict, Message: "Business day is already open"}
	ErrDayAlreadyClosed    = &ServiceError{Reason: ReasonDayAlreadyClosed, StatusCode: http.StatusConflict, Message: "Business day is already closed"}
	ErrCartEmpty           = &ServiceError{Reason: ReasonCartEmpty, StatusCode: http.StatusUnprocessableEntity, Message: "Cart is empty"}
	ErrNoPaymentMethod     = &ServiceError{Reason: ReasonNoPaymentMethod, StatusCode: http.StatusUnprocessableEntity, Message: "Please select a payment method"}
	ErrInvalidPayment      = &ServiceError{Reason: ReasonInvalidPayment, StatusCode: http.StatusUnprocessableEntity, Message: "Unsupported payment method"}
	ErrOutOfStock          = &ServiceError{Reason: ReasonOutOfStock, StatusCode: http.StatusUnprocessableEntity, Message: "Product is out of stock"}
	ErrInsufficientStock   = &ServiceError{Reason: ReasonInsufficientStock, StatusCode: http.StatusUnprocessableEntity, Message: "Not enough inventory"}
	ErrOrderNotPending     = &ServiceError{Reason: ReasonOrderNotPending, StatusCode: http.StatusConflict, Message: "Order is no longer pending"}
	ErrInvalidSeed         = &ServiceError{Reason: ReasonInvalidSeed, StatusCode: http.StatusBadRequest, Message: "Invalid seed data"}
	ErrInvalidSelection    = &ServiceError{Reason: ReasonInvalidSelection, StatusCode: http.StatusBadRequest, Message: "Invalid selection"}
	ErrPaymentInsufficient = &ServiceError{Reason: ReasonPaymentInsufficient, StatusCode: http.StatusUnprocessableEntity, Message: "Amount paid must be at least equal to the total amount"}
	ErrPaymentInProgress   = &ServiceError{Reason: ReasonPaymentInProgress, StatusCode: http.StatusConflict, Message: "A payment is already being processed"}
	ErrPaymentClosed       = &ServiceError{Reason: ReasonPaymentClosed, StatusCode: http.StatusConflict, Message: "Payment is no longer in progress"}
)
