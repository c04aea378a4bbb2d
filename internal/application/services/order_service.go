package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/core/ports"
)

// OrderService turns carts into orders and walks the order lifecycle.
type OrderService struct {
	repo         ports.OrderRepository
	carts        ports.CartRepository
	products     ports.ProductRepository
	users        ports.UserRepository
	emailService ports.EmailService
	logger       *logrus.Logger
}

func NewOrderService(repo ports.OrderRepository, carts ports.CartRepository, products ports.ProductRepository, users ports.UserRepository, emailService ports.EmailService, logger *logrus.Logger) ports.OrderService {
	return &OrderService{
		repo:         repo,
		carts:        carts,
		products:     products,
		users:        users,
		emailService: emailService,
		logger:       logger,
	}
}

// CreateOrder snapshots the user's cart into an order at current product
// prices, decrements stock and clears the cart.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *order.CreateOrderRequest) (*order.Order, error) {
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", req.PaymentMethod)
	}

	o := &order.Order{
		ID:            uuid.New(),
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		Status:        order.StatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: order.PaymentStatusPending,
		ShippingName:  req.ShippingName,
		ShippingPhone: req.ShippingPhone,
		ShippingCity:  req.ShippingCity,
		ShippingLine:  req.ShippingLine,
		Notes:         req.Notes,
	}

	for _, item := range c.Items {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s is no longer available", item.ProductID)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("product %q is no longer available", p.Name)
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("insufficient stock for %q: %d available", p.Name, p.Stock)
		}
		o.Items = append(o.Items, &order.Item{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Price:     p.Price,
			Size:      item.Size,
			Color:     item.Color,
		})
		o.Total += p.Price * float64(item.Quantity)
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	// Decrement stock through the product repository so its cache entries
	// are invalidated along with the write.
	for _, item := range o.Items {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		p.Stock -= item.Quantity
		if err := s.products.Update(ctx, p); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"order_id": o.ID, "product_id": p.ID}).WithError(err).Error("failed to decrement stock")
		}
	}

	if err := s.carts.Clear(ctx, c.ID); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"order_id": o.ID, "cart_id": c.ID}).WithError(err).Warn("failed to clear cart after checkout")
	}

	if s.emailService != nil && s.users != nil {
		if u, err := s.users.GetByID(ctx, userID); err == nil {
			if err := s.emailService.SendOrderConfirmationEmail(ctx, u, o); err != nil && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"order_id": o.ID}).WithError(err).Warn("failed to send order confirmation email")
			}
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"order_id": o.ID, "user_id": userID, "total": o.Total}).Info("order created")
	}
	return o, nil
}

// generateOrderNumber builds the human-readable reference shown to the
// customer: a millisecond timestamp plus three random digits. Uniqueness is
// ultimately enforced by the database constraint.
func generateOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD%d%03d", time.Now().UnixMilli(), suffix)
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*order.Order, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *order.UpdateStatusRequest) (*order.Order, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("invalid order status %q", req.Status)
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, req.Status)
	}

	// A cancelled order returns its stock.
	if req.Status == order.StatusCancelled {
		for _, item := range o.Items {
			p, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				continue
			}
			p.Stock += item.Quantity
			if err := s.products.Update(ctx, p); err != nil && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"order_id": o.ID, "product_id": p.ID}).WithError(err).Error("failed to restore stock")
			}
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	o.Status = req.Status
	return o, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *order.UpdatePaymentStatusRequest) (*order.Order, error) {
	if !req.PaymentStatus.IsValid() {
		return nil, fmt.Errorf("invalid payment status %q", req.PaymentStatus)
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePaymentStatus(ctx, id, req.PaymentStatus); err != nil {
		return nil, err
	}
	o.PaymentStatus = req.PaymentStatus
	return o, nil
}
