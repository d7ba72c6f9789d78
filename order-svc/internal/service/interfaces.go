package service

import (
	"context"
	"io"

	"bistro-backend/order-svc/internal/domain"
	"bistro-backend/order-svc/internal/storage"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
}

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, menuItemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID string, menuItemID int64) (*domain.Cart, error)
}

type OrderRepository interface {
	PlaceFromCart(ctx context.Context, userID string, build domain.OrderBuilder) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	TransitionOrderStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *domain.Booking) error
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	TransitionBookingStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CatalogCache interface {
	Get(ctx context.Context, id int64) (*domain.MenuItem, error)
	Set(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

type ImageStore interface {
	Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
}

// MenuCatalog is the price authority. Resolve always reads current data;
// Lookup may serve a recent snapshot and is for display only.
type MenuCatalog interface {
	Resolve(ctx context.Context, menuItemID int64) (*domain.MenuItem, error)
	Lookup(ctx context.Context, menuItemID int64) (*domain.MenuItem, error)
}

type CartServiceInterface interface {
	AddItem(ctx context.Context, userID string, menuItemID int64, quantity int) (*domain.CartView, error)
	RemoveItem(ctx context.Context, userID string, menuItemID int64) (*domain.CartView, error)
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, userID, address, paymentMethod string) (*domain.Order, error)
	GetOrder(ctx context.Context, caller domain.Caller, orderID int64) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error)
	ReceiptQR(ctx context.Context, caller domain.Caller, orderID int64) ([]byte, error)
}

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, userID string, req domain.BookingRequest) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, status string) (*domain.Booking, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	AdminLogin(ctx context.Context, email, password string) (*domain.Session, error)
	Profile(ctx context.Context, caller domain.Caller) (*domain.User, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem, image *domain.Upload) error
	Update(ctx context.Context, id int64, patch domain.MenuItemPatch, image *domain.Upload) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryServiceInterface interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name string, image *domain.Upload) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string, image *domain.Upload) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

var (
	_ CatalogRepository = (*storage.PostgresRepository)(nil)
	_ CartRepository    = (*storage.PostgresRepository)(nil)
	_ OrderRepository   = (*storage.PostgresRepository)(nil)
	_ BookingRepository = (*storage.PostgresRepository)(nil)
	_ UserRepository    = (*storage.PostgresRepository)(nil)

	_ CatalogRepository = (*storage.MemoryStore)(nil)
	_ CartRepository    = (*storage.MemoryStore)(nil)
	_ OrderRepository   = (*storage.MemoryStore)(nil)
	_ BookingRepository = (*storage.MemoryStore)(nil)
	_ UserRepository    = (*storage.MemoryStore)(nil)

	_ CatalogCache   = (*storage.RedisCache)(nil)
	_ EventPublisher = (*storage.KafkaPublisher)(nil)
	_ ImageStore     = (*storage.LocalImageStore)(nil)

	_ MenuCatalog              = (*MenuService)(nil)
	_ MenuServiceInterface     = (*MenuService)(nil)
	_ CategoryServiceInterface = (*CategoryService)(nil)
	_ CartServiceInterface     = (*CartService)(nil)
	_ OrderServiceInterface    = (*OrderService)(nil)
	_ BookingServiceInterface  = (*BookingService)(nil)
	_ AuthServiceInterface     = (*AuthService)(nil)
	_ QRGenerator              = DefaultQRGenerator{}
)
