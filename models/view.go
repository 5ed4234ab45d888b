package models

// CartView is the snapshot handed to the presentation layer.
type CartView struct {
	IsLoading     bool       `json:"isLoading"`
	Products      []LineItem `json:"products"`
	Total         float64    `json:"total"`
	NotDiscounted bool       `json:"notDiscounted"`
	Errors        []string   `json:"errors,omitempty"`
}

type CartEventType string

const (
	EventLoaded          CartEventType = "loaded"
	EventCouponsLoaded   CartEventType = "coupons_loaded"
	EventItemRemoved     CartEventType = "item_removed"
	EventQuantityChanged CartEventType = "quantity_changed"
	EventCouponApplied   CartEventType = "coupon_applied"
	EventOrderPlaced     CartEventType = "order_placed"
	EventReset           CartEventType = "reset"
)

type CartEvent struct {
	Type CartEventType `json:"type"`
	View CartView      `json:"view"`
}
