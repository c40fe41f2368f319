package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

func testItems(t *testing.T) []OrderItem {
	t.Helper()
	latte, err := NewOrderItem("item-1", "Latte", 2, shared.NewMoney(450, "USD"), "oat milk")
	require.NoError(t, err)
	bagel, err := NewOrderItem("item-2", "Bagel", 1, shared.NewMoney(325, "USD"), "")
	require.NoError(t, err)
	return []OrderItem{latte, bagel}
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ord-1", "ORD-123456-AB12", "user-1", "cafe-1", testItems(t), "no onions")
	require.NoError(t, err)
	return o
}

func TestNewOrderComputesTotal(t *testing.T) {
	o := testOrder(t)

	assert.Equal(t, int64(1325), o.TotalAmount().Amount())
	assert.Equal(t, "USD", o.TotalAmount().Currency())
	assert.Equal(t, StatusPending, o.Status())
	assert.Equal(t, PaymentPending, o.PaymentStatus())
	assert.True(t, o.IsNew())

	items := o.Items()
	assert.Equal(t, "oat milk", items[0].Instructions())
	assert.Empty(t, items[1].Instructions())
}

func TestNewOrderRejectsEmptyItems(t *testing.T) {
	_, err := NewOrder("ord-1", "ORD-123456-AB12", "user-1", "cafe-1", nil, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewOrderItemRejectsNonPositiveQuantity(t *testing.T) {
	_, err := NewOrderItem("item-1", "Latte", 0, shared.NewMoney(450, "USD"), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewOrderItem("item-1", "Latte", -2, shared.NewMoney(450, "USD"), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewOrderRecordsPlacedEvent(t *testing.T) {
	o := testOrder(t)

	events := o.PullEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, "order.placed", placed.EventName())
	assert.Equal(t, "ord-1", placed.AggregateID())
	assert.Len(t, placed.Items, 2)

	// A second pull must come back empty.
	assert.Empty(t, o.PullEvents())
}

func TestUpdateStatusPipeline(t *testing.T) {
	o := testOrder(t)

	require.NoError(t, o.UpdateStatus(StatusAccepted))
	require.NoError(t, o.UpdateStatus(StatusPreparing))
	require.NoError(t, o.UpdateStatus(StatusReady))
	require.NoError(t, o.UpdateStatus(StatusDelivered))
	assert.Equal(t, StatusDelivered, o.Status())
}

func TestUpdateStatusAllowsSkippingSteps(t *testing.T) {
	o := testOrder(t)

	require.NoError(t, o.UpdateStatus(StatusReady))
	assert.Equal(t, StatusReady, o.Status())
}

func TestUpdateStatusRejectsTerminalOrders(t *testing.T) {
	delivered := testOrder(t)
	require.NoError(t, delivered.UpdateStatus(StatusDelivered))
	assert.ErrorIs(t, delivered.UpdateStatus(StatusPreparing), shared.ErrInvalidState)

	cancelled := testOrder(t)
	require.NoError(t, cancelled.Cancel())
	assert.ErrorIs(t, cancelled.UpdateStatus(StatusAccepted), shared.ErrInvalidState)
}

func TestUpdateStatusRejectsCancelledTarget(t *testing.T) {
	o := testOrder(t)
	assert.ErrorIs(t, o.UpdateStatus(StatusCancelled), shared.ErrInvalidState)
}

func TestUpdateStatusRejectsNoOp(t *testing.T) {
	o := testOrder(t)
	assert.ErrorIs(t, o.UpdateStatus(StatusPending), shared.ErrInvalidState)
}

func TestUpdateStatusRecordsEvent(t *testing.T) {
	o := testOrder(t)
	o.PullEvents()

	require.NoError(t, o.UpdateStatus(StatusAccepted))
	events := o.PullEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, string(StatusPending), changed.FromStatus)
	assert.Equal(t, string(StatusAccepted), changed.ToStatus)
}

func TestCancelOnlyFromPending(t *testing.T) {
	o := testOrder(t)
	require.NoError(t, o.Cancel())
	assert.Equal(t, StatusCancelled, o.Status())

	// Double cancel is rejected.
	assert.ErrorIs(t, o.Cancel(), shared.ErrInvalidState)

	accepted := testOrder(t)
	require.NoError(t, accepted.UpdateStatus(StatusAccepted))
	assert.ErrorIs(t, accepted.Cancel(), shared.ErrInvalidState)
}

func TestCancelEventCarriesRestoreLines(t *testing.T) {
	o := testOrder(t)
	o.PullEvents()

	require.NoError(t, o.Cancel())
	events := o.PullEvents()
	require.Len(t, events, 1)
	cancelled, ok := events[0].(*OrderCancelledEvent)
	require.True(t, ok)
	require.Len(t, cancelled.Items, 2)
	assert.Equal(t, "item-1", cancelled.Items[0].MenuItemID)
	assert.Equal(t, 2, cancelled.Items[0].Quantity)
}

func TestMarkPaid(t *testing.T) {
	o := testOrder(t)

	require.NoError(t, o.MarkPaid("credit_card", "TXN-12345678-ABC123"))
	assert.Equal(t, PaymentCompleted, o.PaymentStatus())
	assert.Equal(t, "credit_card", o.PaymentMethod())

	assert.ErrorIs(t, o.MarkPaid("paypal", "TXN-00000000-XXXXXX"), shared.ErrInvalidState)
}

func TestIsOwnedBy(t *testing.T) {
	o := testOrder(t)

	assert.True(t, o.IsOwnedBy(shared.Actor{UserID: "user-1", Role: shared.RoleEmployee}))
	assert.False(t, o.IsOwnedBy(shared.Actor{UserID: "user-2", Role: shared.RoleEmployee}))
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{6}-[A-Z2-9]{4}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = struct{}{}
	}
	// The random suffix should produce some spread within one second.
	assert.Greater(t, len(seen), 1)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("PREPARING")
	assert.True(t, ok)
	assert.Equal(t, StatusPreparing, s)

	_, ok = ParseStatus("BREWING")
	assert.False(t, ok)
}

func TestRebuildFromDTO(t *testing.T) {
	dto := ReconstructionDTO{
		ID:          "ord-9",
		OrderNumber: "ORD-000001-ZZ99",
		CustomerID:  "user-1",
		CafeID:      "cafe-1",
		Items: []ItemReconstructionDTO{
			{MenuItemID: "item-1", ItemName: "Latte", Quantity: 1,
				UnitPrice: shared.NewMoney(450, "USD"), Subtotal: shared.NewMoney(450, "USD"),
				Instructions: "extra hot"},
		},
		TotalAmount:   shared.NewMoney(450, "USD"),
		Status:        StatusReady,
		PaymentStatus: PaymentCompleted,
		Version:       3,
	}

	o := RebuildFromDTO(dto)
	assert.Equal(t, StatusReady, o.Status())
	assert.Equal(t, 3, o.Version())
	assert.False(t, o.IsNew())
	assert.Equal(t, "extra hot", o.Items()[0].Instructions())
	assert.Empty(t, o.PullEvents())
}
