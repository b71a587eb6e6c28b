package handler

import (
	"log/slog"
	"net/http"

	"fleet/internal/delivery/http/response"
	"fleet/internal/domain/repository"
	"fleet/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	TrackingUC usecase.TrackingUsecase
	Logger     *slog.Logger
}

// DeviceHandler holds dependencies for tracker-device handlers.
type DeviceHandler struct {
	trackingUC usecase.TrackingUsecase
	logger     *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler.
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		trackingUC: params.TrackingUC,
		logger:     params.Logger,
	}
}

// RebindDeviceRequest represents the request body for a device rebind.
// A null driver_id unassigns the device.
type RebindDeviceRequest struct {
	DriverID *int64 `json:"driver_id"`
}

// RebindDevice assigns or clears the driver bound to a device serial
// (admin only). The change takes effect on the device's next fix; no
// historical fixes are re-attributed.
func (h *DeviceHandler) RebindDevice(c echo.Context) error {
	serial := c.Param("serial")
	if serial == "" {
		return response.BadRequest(c, "INVALID_SERIAL", "Device serial is required")
	}

	var req RebindDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid rebind input")
	}

	if err := h.trackingUC.RebindDevice(c.Request().Context(), serial, req.DriverID); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return response.NotFound(c, "DEVICE_NOT_FOUND", "Device not found")
		}
		h.logger.Error("rebind device failed", slog.String("serial", serial), slog.Any("error", err))

		return response.InternalServerError(c, "DEVICE_REBIND_FAILED", "Could not rebind device")
	}

	return response.Success(c, http.StatusOK, nil, "Device rebound successfully")
}
