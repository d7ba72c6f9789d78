package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService struct {
	orders    OrderRepository
	publisher EventPublisher
	qrEncoder QRGenerator
}

func NewOrderService(orders OrderRepository, publisher EventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{orders: orders, publisher: publisher, qrEncoder: qr}
}

// PlaceOrder converts the user's cart into a Pending order. Every line is
// re-priced from the menu rows read inside the placement transaction; the
// order insert and the cart clear commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, address, paymentMethod string) (*domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.ErrMissingAddress
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	order, err := s.orders.PlaceFromCart(ctx, userID, func(lines []domain.CartLine, menu domain.MenuItemReader) (*domain.Order, error) {
		if len(lines) == 0 {
			return nil, domain.ErrEmptyCart
		}
		items, total, err := price(lines, menu)
		if err != nil {
			return nil, err
		}
		return &domain.Order{
			UserID:        userID,
			Items:         items,
			TotalAmount:   total,
			Address:       address,
			PaymentMethod: paymentMethod,
			Status:        domain.OrderPending,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Items)))
	s.publish(ctx, domain.OrderPlacedEvent(order))
	return order, nil
}

func price(lines []domain.CartLine, menu domain.MenuItemReader) ([]domain.OrderLine, decimal.Decimal, error) {
	items := make([]domain.OrderLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		item, err := menu(line.MenuItemID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d is no longer on the menu", domain.ErrItemUnavailable, line.MenuItemID)
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !item.IsAvailable {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrItemUnavailable, item.Name)
		}

		items = append(items, domain.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total, nil
}

// GetOrder hides orders of other users behind NotFound unless the caller is an admin.
func (s *OrderService) GetOrder(ctx context.Context, caller domain.Caller, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && order.UserID != caller.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	next := domain.OrderStatus(strings.TrimSpace(status))

	previous, err := advanceStatus(ctx, next,
		func(ctx context.Context) (domain.OrderStatus, error) {
			order, err := s.orders.GetOrder(ctx, orderID)
			if err != nil {
				return "", err
			}
			return order.Status, nil
		},
		func(ctx context.Context, from, to domain.OrderStatus) (bool, error) {
			return s.orders.TransitionOrderStatus(ctx, orderID, from, to)
		})
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	zap.L().Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))
	s.publish(ctx, domain.Event{
		Type:           domain.EventOrderStatusChanged,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         string(next),
		PreviousStatus: string(previous),
		Timestamp:      time.Now().UTC(),
	})
	return order, nil
}

func (s *OrderService) ReceiptQR(ctx context.Context, caller domain.Caller, orderID int64) ([]byte, error) {
	order, err := s.GetOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if s.qrEncoder == nil {
		return nil, errors.New("qr generator is not configured")
	}
	return s.qrEncoder.Generate(order.ID)
}

// publish runs after the state change has committed; a broker failure is
// logged and never fails the request.
func (s *OrderService) publish(ctx context.Context, evt domain.Event) {
	publishEvent(ctx, s.publisher, evt)
}

func publishEvent(ctx context.Context, publisher EventPublisher, evt domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, evt); err != nil {
		zap.L().Error("event publish failed",
			zap.String("type", evt.Type),
			zap.String("key", evt.Key()),
			zap.Error(err))
	}
}
