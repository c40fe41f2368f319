package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/payment"
	"cantina/domain/shared"
)

func TestChargeAndRefund(t *testing.T) {
	g := NewMockGateway(0, 0)
	ctx := context.Background()
	amount := shared.NewMoney(1775, "USD")

	receipt, err := g.Charge(ctx, payment.MethodCreditCard, amount, "order-1")
	require.NoError(t, err)
	assert.Regexp(t, `^TXN-\d{8}-[A-Z2-9]{6}$`, receipt.TransactionID)
	assert.Equal(t, payment.MethodCreditCard, receipt.Method)
	assert.True(t, receipt.Amount.Equals(amount))
	assert.Equal(t, 1, g.OutstandingCharges())

	require.NoError(t, g.Refund(ctx, receipt.TransactionID, amount))
	assert.Zero(t, g.OutstandingCharges())
}

func TestChargeRejectsUnsupportedMethod(t *testing.T) {
	g := NewMockGateway(0, 0)

	_, err := g.Charge(context.Background(), "barter", shared.NewMoney(100, "USD"), "order-1")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestChargeRejectsNonPositiveAmount(t *testing.T) {
	g := NewMockGateway(0, 0)

	_, err := g.Charge(context.Background(), payment.MethodPayPal, shared.Zero("USD"), "order-1")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestChargeCeiling(t *testing.T) {
	g := NewMockGateway(1000, 0)

	_, err := g.Charge(context.Background(), payment.MethodCreditCard, shared.NewMoney(1001, "USD"), "order-1")
	require.ErrorIs(t, err, shared.ErrPaymentDeclined)

	declined, ok := payment.AsDeclined(err)
	require.True(t, ok)
	assert.Equal(t, payment.ReasonAmountTooLarge, declined.Reason)

	_, err = g.Charge(context.Background(), payment.MethodCreditCard, shared.NewMoney(1000, "USD"), "order-2")
	assert.NoError(t, err)
}

func TestChargeSimulatedDecline(t *testing.T) {
	g := NewMockGateway(0, 1.0)

	_, err := g.Charge(context.Background(), payment.MethodApplePay, shared.NewMoney(500, "USD"), "order-1")
	require.ErrorIs(t, err, shared.ErrPaymentDeclined)
	assert.Zero(t, g.OutstandingCharges())
}

func TestRefundUnknownTransaction(t *testing.T) {
	g := NewMockGateway(0, 0)

	err := g.Refund(context.Background(), "TXN-00000000-XXXXXX", shared.NewMoney(100, "USD"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRefundAmountMismatch(t *testing.T) {
	g := NewMockGateway(0, 0)
	ctx := context.Background()

	receipt, err := g.Charge(ctx, payment.MethodCorporateAccount, shared.NewMoney(500, "USD"), "order-1")
	require.NoError(t, err)

	err = g.Refund(ctx, receipt.TransactionID, shared.NewMoney(400, "USD"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
