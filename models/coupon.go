package models

type Coupon struct {
	Discount float64 `json:"discount"`
}

// CouponCatalog maps a coupon code to its discount multiplier.
type CouponCatalog map[string]Coupon

type UpsertCouponRequest struct {
	Discount float64 `json:"discount" binding:"required,gt=0,lte=1"`
}
