// Package checkout turns the shopper's cart into a server order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/auth"
	"github.com/ikkim/storefront/internal/client/cart"
	"github.com/ikkim/storefront/internal/client/session"
	"github.com/ikkim/storefront/pkg/logger"
)

var ErrEmptyCart = fmt.Errorf("%w: cart is empty", api.ErrValidation)

// OrderPlacer submits orders.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, req api.OrderRequest) (*api.Order, error)
}

type Service struct {
	orders   OrderPlacer
	cart     *cart.Manager
	sessions *session.Store
	auth     *auth.Service
}

func NewService(orders OrderPlacer, cartManager *cart.Manager, sessions *session.Store, authService *auth.Service) *Service {
	return &Service{
		orders:   orders,
		cart:     cartManager,
		sessions: sessions,
		auth:     authService,
	}
}

// Checkout places an order for the whole cart. The ordered lines leave the
// cart only once the server has accepted the order; any failure leaves it as
// it was.
func (s *Service) Checkout(ctx context.Context, address api.ShippingAddress, paymentMethod string) (*api.Order, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, auth.ErrNotSignedIn
	}

	items := s.cart.CartItems()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := api.OrderRequest{
		Items:           make([]api.OrderLine, 0, len(items)),
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
	}
	for _, item := range items {
		req.Items = append(req.Items, api.OrderLine{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	order, err := s.orders.PlaceOrder(ctx, sess.Token, req)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			logger.Info("Checkout rejected for stock", map[string]interface{}{
				"items": len(items),
			})
		}
		return nil, s.auth.Expire(ctx, err)
	}

	// The order exists server side now; remove it even if the caller has gone.
	if err := s.cart.RemoveOrdered(context.WithoutCancel(ctx), items); err != nil {
		logger.Error("Order placed but cart could not be cleared", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return order, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalAmount,
	})
	return order, nil
}
