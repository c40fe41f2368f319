// Package payment defines the charge collaborator port. The real processor is
// an external system; this process only needs charge, refund, and the list of
// accepted methods.
package payment

import (
	"context"
	"errors"
	"fmt"

	"cantina/domain/shared"
)

// Methods accepted at checkout.
const (
	MethodCreditCard       = "credit_card"
	MethodPayPal           = "paypal"
	MethodCorporateAccount = "corporate_account"
	MethodApplePay         = "apple_pay"
	MethodGooglePay        = "google_pay"
)

// AcceptedMethods lists every method the gateway will take, in display order.
func AcceptedMethods() []string {
	return []string{MethodCreditCard, MethodPayPal, MethodCorporateAccount, MethodApplePay, MethodGooglePay}
}

// IsAcceptedMethod reports whether method can be charged.
func IsAcceptedMethod(method string) bool {
	switch method {
	case MethodCreditCard, MethodPayPal, MethodCorporateAccount, MethodApplePay, MethodGooglePay:
		return true
	}
	return false
}

// Decline reason codes reported by the processor.
const (
	ReasonInsufficientFunds = "INSUFFICIENT_FUNDS"
	ReasonCardDeclined      = "CARD_DECLINED"
	ReasonNetworkError      = "NETWORK_ERROR"
	ReasonInvalidCard       = "INVALID_CARD"
	ReasonAmountTooLarge    = "AMOUNT_TOO_LARGE"
)

// Receipt is the gateway's confirmation of a completed charge.
type Receipt struct {
	TransactionID string
	Method        string
	Amount        shared.Money
}

// DeclinedError is returned when the processor refuses the charge.
type DeclinedError struct {
	Reason  string
	Message string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined (%s): %s", e.Reason, e.Message)
}

func (e *DeclinedError) Unwrap() error {
	return shared.ErrPaymentDeclined
}

// AsDeclined extracts the decline detail from an error chain.
func AsDeclined(err error) (*DeclinedError, bool) {
	var de *DeclinedError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Gateway is the charge collaborator port.
type Gateway interface {
	// Charge attempts to collect amount via method. A refusal comes back as
	// a DeclinedError; any other error is an infrastructure failure.
	Charge(ctx context.Context, method string, amount shared.Money, orderID string) (Receipt, error)

	// Refund returns a previously charged amount. Best effort; callers log
	// and continue when the refund itself fails.
	Refund(ctx context.Context, transactionID string, amount shared.Money) error
}
