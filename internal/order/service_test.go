package order

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/cache"
	"shopfront/internal/coupon"
	"shopfront/internal/events"
	"shopfront/internal/model"
	"shopfront/internal/pricing"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateAndClearCart(ctx context.Context, order *model.Order, cartOwnerID string) error {
	args := m.Called(ctx, order, cartOwnerID)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByCartVersion(ctx context.Context, ownerID string, cartVersion int64) (*model.Order, error) {
	args := m.Called(ctx, ownerID, cartVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockCartRepository is a mock implementation of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Get(ctx context.Context, ownerID string) (*model.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockCartRepository) SaveAndDelete(ctx context.Context, merged *model.Cart, staleOwnerID string) error {
	args := m.Called(ctx, merged, staleOwnerID)
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderCreated(order *model.Order) {
	m.Called(order)
}

func (m *MockPublisher) OrderStatusChanged(order *model.Order, previous model.OrderStatus) {
	m.Called(order, previous)
}

func testAddress() model.Address {
	return model.Address{
		Name:       "A Customer",
		Street:     "1 High St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "GB",
	}
}

func testCart() *model.Cart {
	return &model.Cart{
		OwnerID: "u1",
		Lines: []model.CartLine{
			{ProductID: "p1", Name: "Widget", UnitPrice: 1000, Quantity: 2},
		},
		Version: 3,
	}
}

func newTestService(orders *MockOrderRepository, carts *MockCartRepository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	table := coupon.NewTable([]coupon.Coupon{{Code: "TEN", Type: coupon.TypePercent, Value: 10}})
	return NewService(orders, carts, cache.Noop{}, table, pricing.DefaultShippingPolicy(), publisher, zerolog.Nop())
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	cart := testCart()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	publisher := new(MockPublisher)

	carts.On("Get", ctx, "u1").Return(cart, nil)
	orders.On("FindByCartVersion", ctx, "u1", int64(3)).Return(nil, nil)
	orders.On("CreateAndClearCart", ctx, mock.AnythingOfType("*model.Order"), "u1").Return(nil)
	publisher.On("OrderCreated", mock.AnythingOfType("*model.Order")).Return()

	svc := newTestService(orders, carts, publisher)

	ord, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		OwnerID:       "u1",
		Address:       testAddress(),
		PaymentMethod: "card",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, ord.ID)
	assert.Equal(t, "u1", ord.OwnerID)
	assert.Equal(t, model.StatusPending, ord.Status)
	assert.Equal(t, int64(3), ord.CartVersion)
	assert.Equal(t, int64(2000), ord.Breakdown.Subtotal)
	assert.Equal(t, int64(499), ord.Breakdown.Shipping)
	assert.Equal(t, int64(2499), ord.Breakdown.Total)
	require.Len(t, ord.Lines, 1)

	orders.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_AppliesCoupon(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)

	carts.On("Get", ctx, "u1").Return(testCart(), nil)
	orders.On("FindByCartVersion", ctx, "u1", int64(3)).Return(nil, nil)
	orders.On("CreateAndClearCart", ctx, mock.AnythingOfType("*model.Order"), "u1").Return(nil)

	svc := newTestService(orders, carts, nil)

	ord, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		OwnerID:       "u1",
		Address:       testAddress(),
		PaymentMethod: "card",
		CouponCode:    "TEN",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200), ord.Breakdown.Discount)
	assert.Equal(t, int64(2299), ord.Breakdown.Total)
	assert.Equal(t, "TEN", ord.CouponCode)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cart *model.Cart
		cErr error
	}{
		{"no cart document", nil, store.ErrNotFound},
		{"cart with no lines", &model.Cart{OwnerID: "u1", Version: 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderRepository)
			carts := new(MockCartRepository)
			if tt.cart == nil {
				carts.On("Get", ctx, "u1").Return(nil, tt.cErr)
			} else {
				carts.On("Get", ctx, "u1").Return(tt.cart, nil)
			}

			svc := newTestService(orders, carts, nil)

			_, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: testAddress()})

			assert.ErrorIs(t, err, model.ErrEmptyCart)
			orders.AssertNotCalled(t, "CreateAndClearCart")
			orders.AssertNotCalled(t, "FindByCartVersion")
		})
	}
}

func TestOrderService_PlaceOrder_AnonymousCart(t *testing.T) {
	ctx := context.Background()
	cart := testCart()
	cart.Anonymous = true

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	carts.On("Get", ctx, "u1").Return(cart, nil)

	svc := newTestService(orders, carts, nil)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: testAddress()})

	assert.ErrorIs(t, err, model.ErrUnauthorised)
	orders.AssertNotCalled(t, "CreateAndClearCart")
}

func TestOrderService_PlaceOrder_IncompleteAddress(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	carts.On("Get", ctx, "u1").Return(testCart(), nil)

	svc := newTestService(orders, carts, nil)

	addr := testAddress()
	addr.PostalCode = ""
	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: addr})

	assert.ErrorIs(t, err, model.ErrInvalidAddress)
	orders.AssertNotCalled(t, "CreateAndClearCart")
}

func TestOrderService_PlaceOrder_InvalidCoupon(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	carts.On("Get", ctx, "u1").Return(testCart(), nil)

	svc := newTestService(orders, carts, nil)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		OwnerID:    "u1",
		Address:    testAddress(),
		CouponCode: "NOPE",
	})

	assert.ErrorIs(t, err, model.ErrInvalidCoupon)
	orders.AssertNotCalled(t, "CreateAndClearCart")
}

func TestOrderService_PlaceOrder_RetryReturnsExistingOrder(t *testing.T) {
	ctx := context.Background()
	cart := testCart()
	placed := &model.Order{ID: "ord-1", OwnerID: "u1", CartVersion: 3, Status: model.StatusPending}

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	publisher := new(MockPublisher)
	carts.On("Get", ctx, "u1").Return(cart, nil)
	orders.On("FindByCartVersion", ctx, "u1", int64(3)).Return(placed, nil)

	svc := newTestService(orders, carts, publisher)

	ord, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: testAddress()})

	require.NoError(t, err)
	assert.Equal(t, "ord-1", ord.ID)
	orders.AssertNotCalled(t, "CreateAndClearCart")
	publisher.AssertNotCalled(t, "OrderCreated")
}

func TestOrderService_PlaceOrder_FreezesPrices(t *testing.T) {
	ctx := context.Background()
	cart := testCart()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	carts.On("Get", ctx, "u1").Return(cart, nil)
	orders.On("FindByCartVersion", ctx, "u1", int64(3)).Return(nil, nil)
	orders.On("CreateAndClearCart", ctx, mock.AnythingOfType("*model.Order"), "u1").Return(nil)

	svc := newTestService(orders, carts, nil)

	ord, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: testAddress()})
	require.NoError(t, err)

	// A later catalogue price change must not reach the placed order.
	cart.Lines[0].UnitPrice = 9999

	assert.Equal(t, int64(1000), ord.Lines[0].UnitPrice)
	assert.Equal(t, int64(2499), ord.Breakdown.Total)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		orders := new(MockOrderRepository)
		publisher := new(MockPublisher)
		orders.On("GetByID", ctx, "ord-1").Return(&model.Order{ID: "ord-1", Status: model.StatusPending}, nil)
		orders.On("Save", ctx, mock.AnythingOfType("*model.Order")).Return(nil)
		publisher.On("OrderStatusChanged", mock.AnythingOfType("*model.Order"), model.StatusPending).Return()

		svc := newTestService(orders, new(MockCartRepository), publisher)

		ord, err := svc.UpdateStatus(ctx, "ord-1", model.StatusProcessing)

		require.NoError(t, err)
		assert.Equal(t, model.StatusProcessing, ord.Status)
		orders.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("invalid transition", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, "ord-1").Return(&model.Order{ID: "ord-1", Status: model.StatusDelivered}, nil)

		svc := newTestService(orders, new(MockCartRepository), nil)

		_, err := svc.UpdateStatus(ctx, "ord-1", model.StatusCancelled)

		assert.ErrorIs(t, err, model.ErrInvalidTransition)
		orders.AssertNotCalled(t, "Save")
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, "ord-9").Return(nil, store.ErrNotFound)

		svc := newTestService(orders, new(MockCartRepository), nil)

		_, err := svc.UpdateStatus(ctx, "ord-9", model.StatusProcessing)

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, "ord-1").Return(&model.Order{ID: "ord-1"}, nil)

		svc := newTestService(orders, new(MockCartRepository), nil)

		ord, err := svc.GetByID(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, "ord-1", ord.ID)
	})

	t.Run("not found", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, "ord-9").Return(nil, store.ErrNotFound)

		svc := newTestService(orders, new(MockCartRepository), nil)

		_, err := svc.GetByID(ctx, "ord-9")
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}

func TestOrderService_ListByOwner(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orders.On("ListByOwner", ctx, "u1", 10, 0).Return([]model.Order{{ID: "ord-2"}, {ID: "ord-1"}}, nil)

	svc := newTestService(orders, new(MockCartRepository), nil)

	got, err := svc.ListByOwner(ctx, "u1", 10, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ord-2", got[0].ID)
}

func TestOrderService_PlaceOrder_StoreFailure(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	carts := new(MockCartRepository)
	publisher := new(MockPublisher)
	carts.On("Get", ctx, "u1").Return(testCart(), nil)
	orders.On("FindByCartVersion", ctx, "u1", int64(3)).Return(nil, nil)
	orders.On("CreateAndClearCart", ctx, mock.Anything, "u1").Return(errors.New("transaction aborted"))

	svc := newTestService(orders, carts, publisher)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{OwnerID: "u1", Address: testAddress()})

	assert.Error(t, err)
	publisher.AssertNotCalled(t, "OrderCreated")
}
