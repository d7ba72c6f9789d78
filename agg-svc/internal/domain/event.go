package domain

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

const (
	EventOrderPlaced          = "order_placed"
	EventOrderStatusChanged   = "order_status_changed"
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"

	OrderPending     = "Pending"
	BookingCancelled = "Cancelled"
)

type EventItem struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// Event is the order-svc event as read from the topic. Fields the
// aggregator does not count are left out.
type Event struct {
	Type           string      `json:"type"`
	OrderID        int64       `json:"order_id,omitempty"`
	BookingID      int64       `json:"booking_id,omitempty"`
	UserID         string      `json:"user_id"`
	Status         string      `json:"status,omitempty"`
	PreviousStatus string      `json:"previous_status,omitempty"`
	Items          []EventItem `json:"items,omitempty"`
	Date           string      `json:"date,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// DedupKey identifies one state change of one entity. Statuses only move
// forward, so the key is unique per applied event.
func (e Event) DedupKey() string {
	entity := "booking:" + strconv.FormatInt(e.BookingID, 10)
	if e.OrderID != 0 {
		entity = "order:" + strconv.FormatInt(e.OrderID, 10)
	}
	return entity + ":" + e.Type + ":" + e.Status
}

// Day is the calendar day the event counts towards, as YYYY-MM-DD. Booking
// dates are free text entered by the guest; one that cannot be read as a date
// counts towards the day the event was emitted.
func (e Event) Day() string {
	if e.Date != "" {
		if t, err := dateparse.ParseAny(e.Date); err == nil {
			return t.Format(dayLayout)
		}
	}
	return e.Timestamp.UTC().Format(dayLayout)
}

const dayLayout = "2006-01-02"
