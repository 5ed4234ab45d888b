package services

import (
	"cart-app/models"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type OrderService struct {
	api     RemoteAPI
	groupID string
	logger  *zap.Logger
}

func NewOrderService(api RemoteAPI, groupID string, logger *zap.Logger) *OrderService {
	return &OrderService{api: api, groupID: groupID, logger: logger}
}

// Submit posts the order. Any 2xx answer counts as accepted; an unreadable
// body only costs the receipt.
func (s *OrderService) Submit(ctx context.Context, order models.OrderSubmission) (models.OrderReceipt, error) {
	url := s.api.URL(fmt.Sprintf("orders/%s.json", s.groupID))

	body, err := s.api.Do(ctx, http.MethodPost, url, order)
	if err != nil {
		return models.OrderReceipt{}, err
	}

	var receipt models.OrderReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		s.logger.Debug("order receipt not decodable", zap.String("url", url), zap.Error(err))
		return models.OrderReceipt{}, nil
	}
	return receipt, nil
}
