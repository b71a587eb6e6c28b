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

// DeliveryHandlerParams holds dependencies for DeliveryHandler, injected by Fx.
type DeliveryHandlerParams struct {
	fx.In

	DispatchUC usecase.DispatchUsecase
	Logger     *slog.Logger
}

// DeliveryHandler holds dependencies for delivery-related handlers.
type DeliveryHandler struct {
	dispatchUC usecase.DispatchUsecase
	logger     *slog.Logger
}

// NewDeliveryHandler is the constructor for DeliveryHandler.
func NewDeliveryHandler(params DeliveryHandlerParams) *DeliveryHandler {
	return &DeliveryHandler{
		dispatchUC: params.DispatchUC,
		logger:     params.Logger,
	}
}

// AssignDeliveryRequest represents the request body for an assignment.
type AssignDeliveryRequest struct {
	DriverID  int64 `json:"driver_id" validate:"required"`
	VehicleID int64 `json:"vehicle_id" validate:"required"`
}

// UpdateDeliveryStatusRequest represents the request body for a status change.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// GetDelivery returns a delivery with its last persisted coordinates. A
// client that received a location_updated event re-fetches through here and
// always observes the already-persisted position.
func (h *DeliveryHandler) GetDelivery(c echo.Context) error {
	deliveryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid delivery ID")
	}

	delivery, err := h.dispatchUC.GetDelivery(c.Request().Context(), deliveryID)
	if err != nil {
		if errors.Is(err, repository.ErrDeliveryNotFound) {
			return response.NotFound(c, "DELIVERY_NOT_FOUND", "Delivery not found")
		}
		h.logger.Error("get delivery failed", slog.Int64("deliveryID", deliveryID), slog.Any("error", err))

		return response.InternalServerError(c, "DELIVERY_FETCH_FAILED", "Could not fetch delivery")
	}

	return response.Success(c, http.StatusOK, delivery, "Delivery retrieved successfully")
}

// AssignDelivery assigns a driver and vehicle to a delivery (admin only).
func (h *DeliveryHandler) AssignDelivery(c echo.Context) error {
	deliveryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid delivery ID")
	}

	var req AssignDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.dispatchUC.AssignDelivery(c.Request().Context(), deliveryID, req.DriverID, req.VehicleID); err != nil {
		if errors.Is(err, repository.ErrDeliveryNotFound) {
			return response.NotFound(c, "DELIVERY_NOT_FOUND", "Delivery not found")
		}
		h.logger.Error("assign delivery failed", slog.Int64("deliveryID", deliveryID), slog.Any("error", err))

		return response.InternalServerError(c, "DELIVERY_ASSIGN_FAILED", "Could not assign delivery")
	}

	return response.Success(c, http.StatusOK, nil, "Delivery assigned successfully")
}

// UpdateDeliveryStatus changes a delivery's status.
func (h *DeliveryHandler) UpdateDeliveryStatus(c echo.Context) error {
	deliveryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid delivery ID")
	}

	var req UpdateDeliveryStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	status, ok := entity.ParseDeliveryStatus(req.Status)
	if !ok {
		return response.BadRequest(c, "INVALID_STATUS", "Unknown delivery status")
	}

	if err := h.dispatchUC.UpdateDeliveryStatus(c.Request().Context(), deliveryID, status); err != nil {
		if errors.Is(err, repository.ErrDeliveryNotFound) {
			return response.NotFound(c, "DELIVERY_NOT_FOUND", "Delivery not found")
		}
		h.logger.Error("update delivery status failed", slog.Int64("deliveryID", deliveryID), slog.Any("error", err))

		return response.InternalServerError(c, "DELIVERY_UPDATE_FAILED", "Could not update delivery status")
	}

	return response.Success(c, http.StatusOK, nil, "Delivery status updated successfully")
}
