// Package router contains routing setup for the HTTP delivery.
package router

import (
	"fleet/internal/delivery/http/middleware"
	"fleet/internal/delivery/http/router/handler"
	"fleet/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds all handlers the router registers, injected by Fx.
type RouterParams struct {
	fx.In

	OrderHandler    *handler.OrderHandler
	DeliveryHandler *handler.DeliveryHandler
	DeviceHandler   *handler.DeviceHandler
	RealtimeHandler *handler.RealtimeHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	orderHandler    *handler.OrderHandler
	deliveryHandler *handler.DeliveryHandler
	deviceHandler   *handler.DeviceHandler
	realtimeHandler *handler.RealtimeHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		orderHandler:    params.OrderHandler,
		deliveryHandler: params.DeliveryHandler,
		deviceHandler:   params.DeviceHandler,
		realtimeHandler: params.RealtimeHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Realtime: the websocket endpoint plus the identity lookup a client
	// performs before computing its topic set.
	realtimeGroup := e.Group("", r.authMiddleware.Authenticate)
	{
		realtimeGroup.GET("/ws", r.realtimeHandler.Connect)
		realtimeGroup.GET("/realtime/identity", r.realtimeHandler.ResolveIdentity)
	}

	orderGroup := e.Group("/orders", r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.CreateOrder,
			r.authMiddleware.RequireRole(entity.RoleCustomer))
		orderGroup.PUT("/:id/status", r.orderHandler.UpdateOrderStatus,
			r.authMiddleware.RequireRole(entity.RoleAdmin))
	}

	deliveryGroup := e.Group("/deliveries", r.authMiddleware.Authenticate)
	{
		deliveryGroup.GET("/:id", r.deliveryHandler.GetDelivery)
		deliveryGroup.PUT("/:id/assign", r.deliveryHandler.AssignDelivery,
			r.authMiddleware.RequireRole(entity.RoleAdmin))
		deliveryGroup.PUT("/:id/status", r.deliveryHandler.UpdateDeliveryStatus,
			r.authMiddleware.RequireAnyRole(entity.RoleAdmin, entity.RoleDriver))
	}

	deviceGroup := e.Group("/devices", r.authMiddleware.Authenticate)
	{
		deviceGroup.PUT("/:serial/binding", r.deviceHandler.RebindDevice,
			r.authMiddleware.RequireRole(entity.RoleAdmin))
	}
}
