package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

type CreateOrderRequest struct {
	Items           []OrderLineRequest    `json:"items" binding:"required,min=1,dive"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func respondOrderError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		apperrors.BadRequest(c, apperrors.OrderEmpty, "Order must contain at least one item")
	case errors.Is(err, service.ErrInvalidAddress):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Shipping address is incomplete")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity must be at least 1")
	case errors.Is(err, service.ErrInvalidOrderStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Status must be one of pending, shipped, delivered, cancelled")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.Conflict(c, apperrors.OrderInsufficientStock, "Not enough stock for one or more items")
	default:
		middleware.GetLoggerFromContext(c).Error("Order request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// CreateOrder places an order for the authenticated user
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Items and a complete shipping address are required")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, service.PlaceOrderInput{
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondOrderError(c, err, "place order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetMyOrders lists the orders of the authenticated user
// GET /api/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondOrderError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID returns one order; admins may read any order
// GET /api/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), userID, role == model.RoleAdmin, c.Param("id"))
	if err != nil {
		respondOrderError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListAllOrders lists every order
// GET /api/admin/orders
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be a non-negative integer")
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "offset must be a non-negative integer")
		return
	}

	orders, err := ctrl.orderService.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		respondOrderError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus changes the fulfilment status
// PUT /api/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondOrderError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, order)
}
