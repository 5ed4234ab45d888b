package models

// CartEntry is one record of the locally persisted cart.
type CartEntry struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// LineItem pairs a resolved product with the quantity the user wants.
type LineItem struct {
	Item     Product `json:"item"`
	Quantity int     `json:"quantity"`
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type ChangeQuantityRequest struct {
	Direction Direction `json:"direction" binding:"required,oneof=up down"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type PlaceOrderRequest struct {
	Name string `json:"name"`
}
