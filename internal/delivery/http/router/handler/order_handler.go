package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"fleet/internal/delivery/http/response"
	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC    usecase.OrderUsecase
	IdentityUC usecase.IdentityUsecase
	Logger     *slog.Logger
}

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	orderUC    usecase.OrderUsecase
	identityUC usecase.IdentityUsecase
	logger     *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC:    params.OrderUC,
		identityUC: params.IdentityUC,
		logger:     params.Logger,
	}
}

// CreateOrderRequest represents the request body for placing an order.
type CreateOrderRequest struct {
	Description string `json:"description" validate:"required"`
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder places an order for the authenticated customer.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, roles, err := callerIdentity(c)
	if err != nil {
		return err
	}

	actor, err := h.identityUC.ResolveActor(c.Request().Context(), userID, roles)
	if err != nil || actor.CustomerID == nil {
		return response.Forbidden(c, "NO_CUSTOMER_RECORD", "No customer record for this account")
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), &usecase.CreateOrderInput{
		CustomerID:  *actor.CustomerID,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("create order failed", slog.Any("error", err))

		return response.InternalServerError(c, "ORDER_CREATE_FAILED", "Could not create order")
	}

	return response.Success(c, http.StatusCreated, order, "Order created successfully")
}

// UpdateOrderStatus changes an order's status (admin only, enforced by routing).
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	status, ok := entity.ParseOrderStatus(req.Status)
	if !ok {
		return response.BadRequest(c, "INVALID_STATUS", "Unknown order status")
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return response.NotFound(c, "ORDER_NOT_FOUND", "Order not found")
		}
		h.logger.Error("update order status failed",
			slog.Int64("orderID", orderID),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "ORDER_UPDATE_FAILED", "Could not update order status")
	}

	return response.Success(c, http.StatusOK, order, "Order status updated successfully")
}
