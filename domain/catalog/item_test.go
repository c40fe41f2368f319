package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

func testItem(t *testing.T) *MenuItem {
	t.Helper()
	item, err := NewMenuItem("item-1", "cafe-1", "Latte", "Oat milk available",
		shared.NewMoney(450, "USD"), 50, 5)
	require.NoError(t, err)
	require.NoError(t, item.Restock(20))
	return item
}

func TestNewMenuItemValidation(t *testing.T) {
	_, err := NewMenuItem("", "cafe-1", "Latte", "", shared.NewMoney(450, "USD"), 50, 5)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewMenuItem("item-1", "cafe-1", "", "", shared.NewMoney(450, "USD"), 50, 5)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewMenuItem("item-1", "cafe-1", "Latte", "", shared.NewMoney(0, "USD"), 50, 5)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDeduct(t *testing.T) {
	item := testItem(t)

	require.NoError(t, item.Deduct(5))
	assert.Equal(t, 15, item.AvailableQuantity())
}

func TestDeductInsufficientStock(t *testing.T) {
	item := testItem(t)

	err := item.Deduct(21)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Latte", stockErr.ItemName)
	assert.Equal(t, 21, stockErr.Requested)
	assert.Equal(t, 20, stockErr.Available)
	assert.Contains(t, err.Error(), "only 20 left")

	// Stock untouched on failure.
	assert.Equal(t, 20, item.AvailableQuantity())
}

func TestDeductRejectsNonPositive(t *testing.T) {
	item := testItem(t)
	assert.ErrorIs(t, item.Deduct(0), shared.ErrInvalidInput)
	assert.ErrorIs(t, item.Deduct(-3), shared.ErrInvalidInput)
}

func TestRestoreIsUncapped(t *testing.T) {
	item := testItem(t)
	require.NoError(t, item.Restock(50))

	// A restore after cancellation may exceed the daily cap.
	require.NoError(t, item.Restore(10))
	assert.Equal(t, 60, item.AvailableQuantity())
}

func TestRestockClampsToDailyMax(t *testing.T) {
	item := testItem(t)

	require.NoError(t, item.Restock(500))
	assert.Equal(t, 50, item.AvailableQuantity())
}

func TestRestockForcesAvailability(t *testing.T) {
	item := testItem(t)
	item.ToggleAvailability()
	require.False(t, item.IsAvailable())

	require.NoError(t, item.Restock(10))
	assert.True(t, item.IsAvailable())
	assert.Equal(t, 10, item.AvailableQuantity())
}

func TestRestockToMax(t *testing.T) {
	item := testItem(t)

	require.NoError(t, item.RestockToMax())
	assert.Equal(t, 50, item.AvailableQuantity())
}

func TestRestockRejectsNegative(t *testing.T) {
	item := testItem(t)
	assert.ErrorIs(t, item.Restock(-1), shared.ErrInvalidInput)
}

func TestToggleAvailabilityOffZeroesStock(t *testing.T) {
	item := testItem(t)

	item.ToggleAvailability()
	assert.False(t, item.IsAvailable())
	assert.Equal(t, 0, item.AvailableQuantity())

	// Toggling back on does not resurrect the old quantity.
	item.ToggleAvailability()
	assert.True(t, item.IsAvailable())
	assert.Equal(t, 0, item.AvailableQuantity())
}

func TestCanFulfill(t *testing.T) {
	item := testItem(t)

	assert.True(t, item.CanFulfill(20))
	assert.False(t, item.CanFulfill(21))
	assert.False(t, item.CanFulfill(0))

	item.ToggleAvailability()
	assert.False(t, item.CanFulfill(1))
}

func TestItemEvents(t *testing.T) {
	item := testItem(t)
	item.PullEvents()

	require.NoError(t, item.Restock(30))
	item.ToggleAvailability()

	events := item.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "catalog.item_restocked", events[0].EventName())
	assert.Equal(t, "catalog.item_availability_changed", events[1].EventName())
	assert.Empty(t, item.PullEvents())
}

func TestCafeOwnership(t *testing.T) {
	cafe, err := NewCafe("cafe-1", "North Lobby", "", "1 Main St", "", "owner-1")
	require.NoError(t, err)

	assert.True(t, cafe.IsOwnedBy(shared.Actor{UserID: "owner-1", Role: shared.RoleCafeOwner}))
	assert.False(t, cafe.IsOwnedBy(shared.Actor{UserID: "owner-2", Role: shared.RoleCafeOwner}))
	assert.False(t, cafe.IsOwnedBy(shared.Actor{UserID: "owner-1", Role: shared.RoleEmployee}))
	assert.True(t, cafe.IsOwnedBy(shared.Actor{UserID: "anyone", Role: shared.RoleSuperAdmin}))
}
