package service

import (
	"context"
	"errors"

	"bistro-backend/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type CartService struct {
	carts   CartRepository
	catalog MenuCatalog
}

func NewCartService(carts CartRepository, catalog MenuCatalog) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// AddItem creates the cart on first use and adds quantity to any existing
// line for the same item. A line never grows past domain.MaxLineQuantity.
func (s *CartService) AddItem(ctx context.Context, userID string, menuItemID int64, quantity int) (*domain.CartView, error) {
	if menuItemID <= 0 {
		return nil, domain.ErrMissingFields
	}
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.catalog.Resolve(ctx, menuItemID); err != nil {
		return nil, err
	}

	cart, err := s.carts.AddItem(ctx, userID, menuItemID, quantity)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// RemoveItem is idempotent for items that are not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID string, menuItemID int64) (*domain.CartView, error) {
	cart, err := s.carts.RemoveItem(ctx, userID, menuItemID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.CartView{UserID: userID, Items: []domain.CartViewLine{}, Subtotal: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	v := &domain.CartView{UserID: cart.UserID, Items: make([]domain.CartViewLine, 0, len(cart.Items)), Subtotal: decimal.Zero}

	for _, line := range cart.Items {
		item, err := s.catalog.Lookup(ctx, line.MenuItemID)
		if errors.Is(err, domain.ErrNotFound) {
			v.Items = append(v.Items, domain.CartViewLine{
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				Price:      decimal.Zero,
				LineTotal:  decimal.Zero,
				Missing:    true,
			})
			continue
		}
		if err != nil {
			return nil, err
		}

		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		v.Items = append(v.Items, domain.CartViewLine{
			MenuItemID:  line.MenuItemID,
			Name:        item.Name,
			Image:       item.Image,
			Quantity:    line.Quantity,
			Price:       item.Price,
			LineTotal:   lineTotal,
			IsAvailable: item.IsAvailable,
		})
		if item.IsAvailable {
			v.Subtotal = v.Subtotal.Add(lineTotal)
		}
	}
	return v, nil
}
