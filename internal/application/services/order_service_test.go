package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/shamcart/storefront/internal/application/services"
	"github.com/shamcart/storefront/internal/core/domain/cart"
	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/core/domain/product"
)

type orderRepoMock struct {
	created                 *order.Order
	updatedPaymentStatus    order.PaymentStatus
	findByIDFn              func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	findByOrderNumberCalled string
}

func (m *orderRepoMock) Create(ctx context.Context, o *order.Order) error {
	m.created = o
	return nil
}
func (m *orderRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *orderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	m.findByOrderNumberCalled = orderNumber
	if m.created != nil && m.created.OrderNumber == orderNumber {
		return m.created, nil
	}
	return nil, errors.New("not found")
}
func (m *orderRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*order.Order, int, error) {
	return nil, 0, nil
}
func (m *orderRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	return nil
}
func (m *orderRepoMock) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status order.PaymentStatus) error {
	m.updatedPaymentStatus = status
	return nil
}

type checkoutProductRepoMock struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	updated    []*product.Product
}

func (m *checkoutProductRepoMock) Create(ctx context.Context, p *product.Product) error { return nil }
func (m *checkoutProductRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *checkoutProductRepoMock) Update(ctx context.Context, p *product.Product) error {
	m.updated = append(m.updated, p)
	return nil
}
func (m *checkoutProductRepoMock) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *checkoutProductRepoMock) List(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	return &product.Page{}, nil
}
func (m *checkoutProductRepoMock) ListByUser(ctx context.Context, page, limit int, filter *product.Filter) (*product.Page, error) {
	return &product.Page{}, nil
}
func (m *checkoutProductRepoMock) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*product.Product, error) {
	return nil, nil
}
func (m *checkoutProductRepoMock) Filter(ctx context.Context, params *product.Filter) ([]*product.Product, error) {
	return nil, nil
}
func (m *checkoutProductRepoMock) IncrementFavorites(ctx context.Context, id uuid.UUID) error {
	return nil
}
func (m *checkoutProductRepoMock) DecrementFavorites(ctx context.Context, id uuid.UUID) error {
	return nil
}

type cartRepoMock struct {
	cart    *cart.Cart
	cleared bool
}

func (m *cartRepoMock) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return m.cart, nil
}
func (m *cartRepoMock) AddItem(ctx context.Context, item *cart.Item) error { return nil }
func (m *cartRepoMock) FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*cart.Item, error) {
	return nil, nil
}
func (m *cartRepoMock) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return nil
}
func (m *cartRepoMock) RemoveItem(ctx context.Context, itemID uuid.UUID) error { return nil }
func (m *cartRepoMock) Clear(ctx context.Context, cartID uuid.UUID) error {
	m.cleared = true
	return nil
}

func checkoutFixture(t *testing.T) (*orderRepoMock, *cartRepoMock, *checkoutProductRepoMock, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	productID := uuid.New()
	carts := &cartRepoMock{cart: &cart.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  []*cart.Item{{ID: uuid.New(), ProductID: productID, Quantity: 2, Price: 9.0}},
	}}
	products := &checkoutProductRepoMock{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
			return &product.Product{ID: id, Name: "widget", Price: 10.0, Stock: 5, IsActive: true}, nil
		},
	}
	return &orderRepoMock{}, carts, products, userID
}

func TestCreateOrder_PopulatesPaymentAndOrderNumber(t *testing.T) {
	ctx := context.Background()
	orders, carts, products, userID := checkoutFixture(t)
	svc := impl.NewOrderService(orders, carts, products, nil, nil, nil)

	o, err := svc.CreateOrder(ctx, userID, &order.CreateOrderRequest{
		ShippingName:  "A Buyer",
		ShippingPhone: "0900000000",
		ShippingCity:  "Damascus",
		ShippingLine:  "Main St 1",
		PaymentMethod: order.PaymentCard,
		Notes:         "leave at the door",
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(o.OrderNumber, "ORD"), "order number %q", o.OrderNumber)
	require.Greater(t, len(o.OrderNumber), len("ORD"))
	require.Equal(t, order.PaymentCard, o.PaymentMethod)
	require.Equal(t, order.PaymentStatusPending, o.PaymentStatus)
	require.Equal(t, "leave at the door", o.Notes)
	require.Equal(t, 20.0, o.Total, "totals come from current product prices, not the cart snapshot")
	require.Equal(t, o, orders.created)
	require.True(t, carts.cleared)
}

func TestCreateOrder_OrderNumbersDiffer(t *testing.T) {
	ctx := context.Background()
	req := &order.CreateOrderRequest{
		ShippingName:  "A Buyer",
		ShippingPhone: "0900000000",
		ShippingCity:  "Damascus",
		ShippingLine:  "Main St 1",
		PaymentMethod: order.PaymentCash,
	}

	seen := map[string]struct{}{}
	for i := 0; i < 5; i++ {
		orders, carts, products, userID := checkoutFixture(t)
		svc := impl.NewOrderService(orders, carts, products, nil, nil, nil)
		o, err := svc.CreateOrder(ctx, userID, req)
		require.NoError(t, err)
		seen[o.OrderNumber] = struct{}{}
	}
	require.Greater(t, len(seen), 1, "consecutive orders should not share a number")
}

func TestCreateOrder_RejectsUnknownPaymentMethod(t *testing.T) {
	ctx := context.Background()
	orders, carts, products, userID := checkoutFixture(t)
	svc := impl.NewOrderService(orders, carts, products, nil, nil, nil)

	_, err := svc.CreateOrder(ctx, userID, &order.CreateOrderRequest{
		ShippingName:  "A Buyer",
		ShippingPhone: "0900000000",
		ShippingCity:  "Damascus",
		ShippingLine:  "Main St 1",
		PaymentMethod: "bitcoin",
	})
	require.Error(t, err)
	require.Nil(t, orders.created)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	orders := &orderRepoMock{}
	carts := &cartRepoMock{cart: &cart.Cart{ID: uuid.New()}}
	svc := impl.NewOrderService(orders, carts, &checkoutProductRepoMock{}, nil, nil, nil)

	_, err := svc.CreateOrder(ctx, uuid.New(), &order.CreateOrderRequest{
		ShippingName:  "A Buyer",
		ShippingPhone: "0900000000",
		ShippingCity:  "Damascus",
		ShippingLine:  "Main St 1",
		PaymentMethod: order.PaymentCash,
	})
	require.Error(t, err)
}

func TestGetOrderByNumber(t *testing.T) {
	ctx := context.Background()
	orders, carts, products, userID := checkoutFixture(t)
	svc := impl.NewOrderService(orders, carts, products, nil, nil, nil)

	created, err := svc.CreateOrder(ctx, userID, &order.CreateOrderRequest{
		ShippingName:  "A Buyer",
		ShippingPhone: "0900000000",
		ShippingCity:  "Damascus",
		ShippingLine:  "Main St 1",
		PaymentMethod: order.PaymentOnline,
	})
	require.NoError(t, err)

	got, err := svc.GetOrderByNumber(ctx, created.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.OrderNumber, orders.findByOrderNumberCalled)

	_, err = svc.GetOrderByNumber(ctx, "ORD0000000000000000")
	require.Error(t, err)
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	orders := &orderRepoMock{
		findByIDFn: func(ctx context.Context, got uuid.UUID) (*order.Order, error) {
			return &order.Order{ID: got, PaymentStatus: order.PaymentStatusPending}, nil
		},
	}
	svc := impl.NewOrderService(orders, &cartRepoMock{}, &checkoutProductRepoMock{}, nil, nil, nil)

	o, err := svc.UpdatePaymentStatus(ctx, id, &order.UpdatePaymentStatusRequest{PaymentStatus: order.PaymentStatusPaid})
	require.NoError(t, err)
	require.Equal(t, order.PaymentStatusPaid, o.PaymentStatus)
	require.Equal(t, order.PaymentStatusPaid, orders.updatedPaymentStatus)

	_, err = svc.UpdatePaymentStatus(ctx, id, &order.UpdatePaymentStatusRequest{PaymentStatus: "refunded"})
	require.Error(t, err)
}
