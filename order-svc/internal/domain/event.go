package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced          = "order_placed"
	EventOrderStatusChanged   = "order_status_changed"
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
)

type EventItem struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type Event struct {
	Type           string           `json:"type"`
	OrderID        int64            `json:"order_id,omitempty"`
	BookingID      int64            `json:"booking_id,omitempty"`
	UserID         string           `json:"user_id"`
	Status         string           `json:"status,omitempty"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	Items          []EventItem      `json:"items,omitempty"`
	TotalAmount    *decimal.Decimal `json:"total_amount,omitempty"`
	Date           string           `json:"date,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Key is the partition key: events of one entity stay ordered.
func (e Event) Key() string {
	if e.OrderID != 0 {
		return "order:" + strconv.FormatInt(e.OrderID, 10)
	}
	return "booking:" + strconv.FormatInt(e.BookingID, 10)
}

func OrderPlacedEvent(o *Order) Event {
	items := make([]EventItem, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, EventItem{MenuItemID: line.MenuItemID, Name: line.Name, Quantity: line.Quantity})
	}
	total := o.TotalAmount
	return Event{
		Type:        EventOrderPlaced,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		Items:       items,
		TotalAmount: &total,
		Date:        o.CreatedAt.UTC().Format("2006-01-02"),
		Timestamp:   time.Now().UTC(),
	}
}
