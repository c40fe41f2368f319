package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domorder "cantina/domain/order"
	"cantina/domain/shared"
	"cantina/infrastructure/persistence/mocks"
)

var (
	employee   = shared.Actor{UserID: "emp-1", Role: shared.RoleEmployee}
	otherEmp   = shared.Actor{UserID: "emp-2", Role: shared.RoleEmployee}
	cafeOwner  = shared.Actor{UserID: "owner-1", Role: shared.RoleCafeOwner}
	otherOwner = shared.Actor{UserID: "owner-2", Role: shared.RoleCafeOwner}
	superAdmin = shared.Actor{UserID: "admin-1", Role: shared.RoleSuperAdmin}
)

type fixture struct {
	service   *Service
	orderRepo *mocks.MockOrderRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	feedbackRepo := mocks.NewMockFeedbackRepository()
	orderRepo := mocks.NewMockOrderRepository()
	catalogRepo := mocks.NewMockCatalogRepositoryWithData()
	return &fixture{
		service:   NewService(feedbackRepo, orderRepo, catalogRepo, mocks.NewMockUnitOfWork()),
		orderRepo: orderRepo,
	}
}

// seedOrder saves an order for emp-1 at cafe-1 in the given status.
func (f *fixture) seedOrder(t *testing.T, id string, status domorder.OrderStatus) {
	t.Helper()
	item, err := domorder.NewOrderItem("item-1", "Latte", 1, shared.NewMoney(450, "USD"), "")
	require.NoError(t, err)
	o, err := domorder.NewOrder(id, domorder.GenerateOrderNumber(), employee.UserID, "cafe-1",
		[]domorder.OrderItem{item}, "")
	require.NoError(t, err)
	if status != domorder.StatusPending {
		require.NoError(t, o.UpdateStatus(status))
	}
	o.PullEvents()
	require.NoError(t, f.orderRepo.Save(context.Background(), o))
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)

	entry, err := f.service.Submit(context.Background(), employee, "order-1", SubmitRequest{
		Rating:  4,
		Comment: "sandwich was great, coffee a bit cold",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", entry.OrderID)
	assert.Equal(t, "cafe-1", entry.CafeID)
	assert.Equal(t, 4, entry.Rating)
}

func TestSubmitForReadyOrder(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusReady)

	_, err := f.service.Submit(context.Background(), employee, "order-1", SubmitRequest{Rating: 5})
	assert.NoError(t, err)
}

func TestSubmitNotEligibleBeforeReady(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusPreparing)

	_, err := f.service.Submit(context.Background(), employee, "order-1", SubmitRequest{Rating: 5})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestSubmitByAnotherCustomer(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)

	_, err := f.service.Submit(context.Background(), otherEmp, "order-1", SubmitRequest{Rating: 1})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSubmitTwice(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, employee, "order-1", SubmitRequest{Rating: 5})
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, employee, "order-1", SubmitRequest{Rating: 2})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestSubmitUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(context.Background(), employee, "order-404", SubmitRequest{Rating: 3})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetForOrderVisibility(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, employee, "order-1", SubmitRequest{Rating: 4})
	require.NoError(t, err)

	for _, actor := range []shared.Actor{employee, cafeOwner, superAdmin} {
		_, err := f.service.GetForOrder(ctx, actor, "order-1")
		assert.NoError(t, err, "role %s", actor.Role)
	}

	_, err = f.service.GetForOrder(ctx, otherEmp, "order-1")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = f.service.GetForOrder(ctx, otherOwner, "order-1")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestListForCafe(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)
	f.seedOrder(t, "order-2", domorder.StatusDelivered)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, employee, "order-1", SubmitRequest{Rating: 4})
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, employee, "order-2", SubmitRequest{Rating: 5})
	require.NoError(t, err)

	entries, err := f.service.ListForCafe(ctx, cafeOwner, "cafe-1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = f.service.ListForCafe(ctx, otherOwner, "cafe-1")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "order-1", domorder.StatusDelivered)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, employee, "order-1", SubmitRequest{Rating: 3})
	require.NoError(t, err)

	mine, err := f.service.ListMine(ctx, employee)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := f.service.ListMine(ctx, otherEmp)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// recordingFactory counts the units of work a flow opens.
type recordingFactory struct {
	inner   *mocks.MockUnitOfWork
	created int
}

func (f *recordingFactory) New() shared.UnitOfWork {
	f.created++
	return f.inner.New()
}

func TestSubmitRunsInOneUnitOfWork(t *testing.T) {
	orderRepo := mocks.NewMockOrderRepository()
	factory := &recordingFactory{inner: mocks.NewMockUnitOfWork()}
	service := NewService(mocks.NewMockFeedbackRepository(), orderRepo,
		mocks.NewMockCatalogRepositoryWithData(), factory)

	f := &fixture{service: service, orderRepo: orderRepo}
	f.seedOrder(t, "order-1", domorder.StatusDelivered)

	_, err := service.Submit(context.Background(), employee, "order-1", SubmitRequest{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, factory.created)
}
