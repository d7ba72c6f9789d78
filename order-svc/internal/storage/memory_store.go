package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"bistro-backend/order-svc/internal/domain"
)

// MemoryStore implements the order-svc repositories in process memory.
// Carts are guarded per user so that placement for one user holds only that
// user's lock while the builder reads the catalog.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	menu       map[int64]*domain.MenuItem
	orders     map[int64]*domain.Order
	bookings   map[int64]*domain.Booking
	users      map[int64]*domain.User
	nextID     int64

	cartsMu   sync.Mutex
	carts     map[string]*domain.Cart
	cartLocks map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[int64]*domain.Category),
		menu:       make(map[int64]*domain.MenuItem),
		orders:     make(map[int64]*domain.Order),
		bookings:   make(map[int64]*domain.Booking),
		users:      make(map[int64]*domain.User),
		carts:      make(map[string]*domain.Cart),
		cartLocks:  make(map[string]*sync.Mutex),
	}
}

// id must be called with mu held for writing.
func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return domain.ErrCategoryExists
		}
	}
	now := time.Now()
	category.ID = s.id()
	category.CreatedAt, category.UpdatedAt = now, now
	stored := *category
	s.categories[category.ID] = &stored
	return nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID > categories[j].ID })
	return categories, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (s *MemoryStore) UpdateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	for _, other := range s.categories {
		if other.ID != category.ID && other.Name == category.Name {
			return domain.ErrCategoryExists
		}
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	stored := *category
	s.categories[category.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	item.ID = s.id()
	item.CreatedAt, item.UpdatedAt = now, now
	stored := *item
	s.menu[item.ID] = &stored
	return nil
}

func (s *MemoryStore) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		items = append(items, s.withCategory(*m))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetMenuItem(_ context.Context, id int64) (*domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.menu[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	out := s.withCategory(*m)
	return &out, nil
}

func (s *MemoryStore) withCategory(item domain.MenuItem) domain.MenuItem {
	if c, ok := s.categories[item.CategoryID]; ok {
		item.CategoryName = c.Name
	} else {
		item.CategoryName = ""
	}
	return item
}

func (s *MemoryStore) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.menu[item.ID]
	if !ok {
		return domain.ErrMenuItemNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	stored := *item
	s.menu[item.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteMenuItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(s.menu, id)
	return nil
}

func (s *MemoryStore) cartLock(userID string) *sync.Mutex {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()

	l, ok := s.cartLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.cartLocks[userID] = l
	}
	return l
}

// cart and putCart touch only the map; callers hold the user's cart lock.
func (s *MemoryStore) cart(userID string) (*domain.Cart, bool) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()
	c, ok := s.carts[userID]
	return c, ok
}

func (s *MemoryStore) putCart(c *domain.Cart) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()
	s.carts[c.UserID] = c
}

func copyCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartLine{}, c.Items...)
	return &out
}

func (s *MemoryStore) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	l := s.cartLock(userID)
	l.Lock()
	defer l.Unlock()

	c, ok := s.cart(userID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return copyCart(c), nil
}

func (s *MemoryStore) AddItem(_ context.Context, userID string, menuItemID int64, quantity int) (*domain.Cart, error) {
	l := s.cartLock(userID)
	l.Lock()
	defer l.Unlock()

	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	now := time.Now()
	c, ok := s.cart(userID)
	if !ok {
		c = &domain.Cart{UserID: userID, Items: []domain.CartLine{}, CreatedAt: now}
		s.putCart(c)
	}

	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			if c.Items[i].Quantity > domain.MaxLineQuantity-quantity {
				return nil, domain.ErrInvalidQuantity
			}
			c.Items[i].Quantity += quantity
			c.UpdatedAt = now
			return copyCart(c), nil
		}
	}
	c.Items = append(c.Items, domain.CartLine{MenuItemID: menuItemID, Quantity: quantity, AddedAt: now})
	c.UpdatedAt = now
	return copyCart(c), nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, userID string, menuItemID int64) (*domain.Cart, error) {
	l := s.cartLock(userID)
	l.Lock()
	defer l.Unlock()

	c, ok := s.cart(userID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	kept := c.Items[:0]
	for _, line := range c.Items {
		if line.MenuItemID != menuItemID {
			kept = append(kept, line)
		}
	}
	if len(kept) != len(c.Items) {
		c.UpdatedAt = time.Now()
	}
	c.Items = kept
	return copyCart(c), nil
}

func (s *MemoryStore) PlaceFromCart(ctx context.Context, userID string, build domain.OrderBuilder) (*domain.Order, error) {
	l := s.cartLock(userID)
	l.Lock()
	defer l.Unlock()

	lines := []domain.CartLine{}
	c, ok := s.cart(userID)
	if ok {
		lines = append(lines, c.Items...)
	}

	order, err := build(lines, func(menuItemID int64) (*domain.MenuItem, error) {
		return s.GetMenuItem(ctx, menuItemID)
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := time.Now()
	order.ID = s.id()
	order.CreatedAt, order.UpdatedAt = now, now
	stored := copyOrder(order)
	s.orders[order.ID] = stored
	s.mu.Unlock()

	if ok {
		c.Items = []domain.CartLine{}
		c.UpdatedAt = now
	}
	return order, nil
}

func copyOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = append([]domain.OrderLine{}, o.Items...)
	return &out
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *MemoryStore) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	return s.listOrders(func(*domain.Order) bool { return true }), nil
}

func (s *MemoryStore) listOrders(keep func(*domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range s.orders {
		if keep(o) {
			orders = append(orders, *copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

func (s *MemoryStore) TransitionOrderStatus(_ context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return true, nil
}

// CreateBooking checks the slot and inserts under one write lock.
func (s *MemoryStore) CreateBooking(_ context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.Status.HoldsSlot() && existing.Date == b.Date && existing.Time == b.Time {
			return domain.ErrSlotTaken
		}
	}
	now := time.Now()
	b.ID = s.id()
	b.CreatedAt, b.UpdatedAt = now, now
	stored := *b
	s.bookings[b.ID] = &stored
	return nil
}

func (s *MemoryStore) GetBooking(_ context.Context, bookingID int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *MemoryStore) ListBookingsByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	return s.listBookings(func(b *domain.Booking) bool { return b.UserID == userID }), nil
}

func (s *MemoryStore) ListBookings(_ context.Context) ([]domain.Booking, error) {
	return s.listBookings(func(*domain.Booking) bool { return true }), nil
}

func (s *MemoryStore) listBookings(keep func(*domain.Booking) bool) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := []domain.Booking{}
	for _, b := range s.bookings {
		if keep(b) {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID > bookings[j].ID })
	return bookings
}

func (s *MemoryStore) TransitionBookingStatus(_ context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return false, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	now := time.Now()
	u.ID = s.id()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
