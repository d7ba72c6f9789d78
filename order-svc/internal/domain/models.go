package domain

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPaymentMethod = "Cash on Delivery"

// MaxLineQuantity bounds a single cart line, across repeated adds.
const MaxLineQuantity = 1000

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Image        string          `json:"image"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MenuItemPatch carries the fields of a partial menu update; nil means unchanged.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *int64
	IsAvailable *bool
}

// Upload is an image file received with a multipart form.
type Upload struct {
	Filename string
	Reader   io.Reader
}

type CartLine struct {
	MenuItemID int64     `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}

// MenuItemReader reads the current state of a menu item.
type MenuItemReader func(menuItemID int64) (*MenuItem, error)

// OrderBuilder turns the locked cart lines into an order, pricing them
// through items. Returning an error aborts placement and leaves the cart
// untouched.
type OrderBuilder func(lines []CartLine, items MenuItemReader) (*Order, error)

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartView is the cart joined with catalog data for display. Prices here are
// informational; checkout re-prices every line.
type CartView struct {
	UserID   string          `json:"user_id"`
	Items    []CartViewLine  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartViewLine struct {
	MenuItemID  int64           `json:"menu_item_id"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	IsAvailable bool            `json:"is_available"`
	Missing     bool            `json:"missing,omitempty"`
}

type OrderLine struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []OrderLine     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Booking struct {
	ID             int64         `json:"id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	NumberOfPeople int           `json:"number_of_people"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Note           string        `json:"note,omitempty"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type BookingRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	NumberOfPeople int    `json:"numberOfPeople"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Note           string `json:"note"`
}

// Caller is the identity asserted by the gateway for the current request.
type Caller struct {
	UserID  string
	IsAdmin bool
}

// User is a registered customer account. The password hash never leaves
// the service.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Role is the label shown to clients for the account.
func (u User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// Session is a signed token handed to a caller after a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
