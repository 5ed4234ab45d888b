package services

import (
	"cart-app/models"
	"context"
)

type CouponService struct {
	api RemoteAPI
}

func NewCouponService(api RemoteAPI) *CouponService {
	return &CouponService{api: api}
}

func (s *CouponService) FetchCatalog(ctx context.Context) (models.CouponCatalog, error) {
	var catalog models.CouponCatalog
	if err := s.api.GetJSON(ctx, s.api.URL("couponCodes.json"), &catalog); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = models.CouponCatalog{}
	}
	return catalog, nil
}
