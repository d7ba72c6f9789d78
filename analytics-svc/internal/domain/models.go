package domain

type ItemAnalytics struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

// Order statuses reported by the status breakdown, in lifecycle order.
var OrderStatuses = []string{"Pending", "Preparing", "Delivered"}
