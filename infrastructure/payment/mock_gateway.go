// Package payment provides the stand-in charge processor. It validates the
// way the real processor would (method, amount bounds, single-charge ceiling)
// and can simulate random declines for resilience testing.
package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"cantina/domain/payment"
	"cantina/domain/shared"
	"cantina/pkg/logger"
)

const txnCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MockGateway implements the charge port in-process. Charges above the
// ceiling are declined; a configurable failure rate simulates processor
// declines (zero in every real deployment).
type MockGateway struct {
	mu          sync.Mutex
	maxAmount   int64
	failureRate float64
	charges     map[string]shared.Money // transaction id -> charged amount
}

// NewMockGateway creates the gateway. maxAmount is the single-charge ceiling
// in minor units; zero disables it.
func NewMockGateway(maxAmount int64, failureRate float64) *MockGateway {
	return &MockGateway{
		maxAmount:   maxAmount,
		failureRate: failureRate,
		charges:     make(map[string]shared.Money),
	}
}

// Charge validates and collects the amount, returning a receipt with the
// transaction reference.
func (g *MockGateway) Charge(ctx context.Context, method string, amount shared.Money, orderID string) (payment.Receipt, error) {
	if !payment.IsAcceptedMethod(method) {
		return payment.Receipt{}, shared.NewValidationError("payment", "method", "unsupported payment method "+method)
	}
	if !amount.IsPositive() {
		return payment.Receipt{}, shared.NewValidationError("payment", "amount", "charge amount must be positive")
	}
	if g.maxAmount > 0 && amount.Amount() > g.maxAmount {
		return payment.Receipt{}, &payment.DeclinedError{
			Reason:  payment.ReasonAmountTooLarge,
			Message: fmt.Sprintf("amount exceeds the single-charge limit of %d", g.maxAmount),
		}
	}

	if g.failureRate > 0 && rand.Float64() < g.failureRate {
		decline := g.randomDecline()
		logger.Warn("payment declined",
			zap.String("order_id", orderID),
			zap.String("method", method),
			zap.String("reason", decline.Reason))
		return payment.Receipt{}, decline
	}

	txnID := generateTransactionID()
	g.mu.Lock()
	g.charges[txnID] = amount
	g.mu.Unlock()

	logger.Info("payment charged",
		zap.String("order_id", orderID),
		zap.String("transaction_id", txnID),
		zap.String("method", method),
		zap.Int64("amount", amount.Amount()))

	return payment.Receipt{
		TransactionID: txnID,
		Method:        method,
		Amount:        amount,
	}, nil
}

// Refund reverses a charge made through this gateway.
func (g *MockGateway) Refund(ctx context.Context, transactionID string, amount shared.Money) error {
	g.mu.Lock()
	charged, ok := g.charges[transactionID]
	if ok {
		delete(g.charges, transactionID)
	}
	g.mu.Unlock()

	if !ok {
		return shared.NewNotFoundError("transaction " + transactionID)
	}
	if !charged.Equals(amount) {
		return shared.NewValidationError("payment", "amount", "refund amount does not match the charge")
	}

	logger.Info("payment refunded",
		zap.String("transaction_id", transactionID),
		zap.Int64("amount", amount.Amount()))
	return nil
}

// ChargedAmount reports the outstanding charge for a transaction. Test hook.
func (g *MockGateway) ChargedAmount(transactionID string) (shared.Money, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.charges[transactionID]
	return amount, ok
}

// OutstandingCharges counts charges that were not refunded. Test hook.
func (g *MockGateway) OutstandingCharges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

func (g *MockGateway) randomDecline() *payment.DeclinedError {
	reasons := []struct{ reason, message string }{
		{payment.ReasonInsufficientFunds, "insufficient funds"},
		{payment.ReasonCardDeclined, "card declined by issuer"},
		{payment.ReasonNetworkError, "processor network error"},
		{payment.ReasonInvalidCard, "invalid card details"},
	}
	pick := reasons[rand.IntN(len(reasons))]
	return &payment.DeclinedError{Reason: pick.reason, Message: pick.message}
}

// generateTransactionID builds a reference like TXN-48392112-K7Q2M9.
func generateTransactionID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = txnCharset[rand.IntN(len(txnCharset))]
	}
	return fmt.Sprintf("TXN-%08d-%s", time.Now().Unix()%100_000_000, suffix)
}

var _ payment.Gateway = (*MockGateway)(nil)
