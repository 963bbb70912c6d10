package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidAddress     = errors.New("shipping address is incomplete")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

const defaultPaymentMethod = "cod"

type OrderLine struct {
	ProductID string
	Quantity  int
	Size      string
}

type PlaceOrderInput struct {
	Items           []OrderLine
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*model.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	GetOrder(ctx context.Context, requesterID string, isAdmin bool, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func addressComplete(a model.ShippingAddress) bool {
	for _, v := range []string{a.FullName, a.Phone, a.Address, a.City, a.State, a.PostalCode} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// mergeLines folds repeated product/size pairs into one line.
func mergeLines(lines []OrderLine) []OrderLine {
	merged := make([]OrderLine, 0, len(lines))
	index := make(map[[2]string]int, len(lines))
	for _, line := range lines {
		key := [2]string{line.ProductID, line.Size}
		if i, ok := index[key]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *orderService) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":    userID,
		"line_count": len(input.Items),
	})

	if len(input.Items) == 0 {
		logger.Warn("Cannot place order: no items", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyOrder
	}
	if !addressComplete(input.ShippingAddress) {
		return nil, ErrInvalidAddress
	}
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = defaultPaymentMethod
	}

	var total float64
	for _, line := range mergeLines(input.Items) {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logger.Warn("Product not found while placing order", map[string]interface{}{
					"user_id":    userID,
					"product_id": line.ProductID,
				})
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if product.Stock < line.Quantity {
			logger.Warn("Order rejected: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  line.Quantity,
				"available":  product.Stock,
			})
			return nil, ErrInsufficientStock
		}

		unitPrice := product.EffectivePrice()
		order.Items = append(order.Items, model.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: unitPrice,
			Quantity:  line.Quantity,
			Size:      line.Size,
		})
		total += unitPrice * float64(line.Quantity)
	}
	order.TotalAmount = roundCents(total)

	// The stock check above is advisory; Place re-checks atomically.
	if err := s.orderRepo.Place(ctx, order); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to place order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalAmount,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetOrder returns the order when it belongs to the requester or the requester is an admin.
// Someone else's order is reported as not found.
func (s *orderService) GetOrder(ctx context.Context, requesterID string, isAdmin bool, orderID string) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  requesterID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return s.orderRepo.FindAll(ctx, limit, offset)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.findOrder(ctx, orderID)
}
