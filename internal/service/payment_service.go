package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"go.uber.org/zap"
)

// PaymentService wraps the two server calls around the provider checkout.
type PaymentService struct {
	api    Requester
	logger *zap.Logger
}

func NewPaymentService(api Requester, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		api:    api,
		logger: logger,
	}
}

// CreateOrder asks the server for a checkout order for planID.
func (s *PaymentService) CreateOrder(ctx context.Context, planID string) (*model.Order, error) {
	if planID == "" {
		return nil, ErrPlanNotFound
	}

	resp, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Endpoint: endpoint.CreateOrder,
		Body:     map[string]string{"planId": planID},
	})
	if err != nil {
		s.logger.Error("Failed to create order", zap.String("plan_id", planID), zap.Error(err))
		return nil, err
	}

	var order model.Order
	if err := api.DecodeData(resp, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if order.OrderID == "" {
		return nil, fmt.Errorf("decode order: order id missing")
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency))

	return &order, nil
}

// VerifyPayment submits the checkout result. A nil error means the server accepted it.
func (s *PaymentService) VerifyPayment(ctx context.Context, v model.PaymentVerification) error {
	if v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return fmt.Errorf("order id, payment id and signature are required")
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Endpoint: endpoint.VerifyPayment, Body: v})
	if err != nil {
		s.logger.Error("Payment verification failed", zap.String("order_id", v.OrderID), zap.Error(err))
		return err
	}
	if !resp.Success {
		return fmt.Errorf("payment not verified: %s", resp.Message)
	}

	s.logger.Info("Payment verified",
		zap.String("order_id", v.OrderID),
		zap.String("payment_id", v.PaymentID))
	return nil
}
