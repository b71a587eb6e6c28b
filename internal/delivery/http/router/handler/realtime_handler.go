package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"fleet/config"
	"fleet/internal/delivery/http/response"
	"fleet/internal/realtime"
	"fleet/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RealtimeHandlerParams holds dependencies for RealtimeHandler, injected by Fx.
type RealtimeHandlerParams struct {
	fx.In

	Config     *config.Config
	Hub        *realtime.Hub
	Authorizer realtime.Authorizer
	TrackingUC usecase.TrackingUsecase
	IdentityUC usecase.IdentityUsecase
	Logger     *slog.Logger
}

// RealtimeHandler upgrades websocket connections and serves the identity
// lookup with which clients resolve their topic set.
type RealtimeHandler struct {
	hub        *realtime.Hub
	authorizer realtime.Authorizer
	trackingUC usecase.TrackingUsecase
	identityUC usecase.IdentityUsecase
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	sendBuffer int
}

// NewRealtimeHandler is the constructor for RealtimeHandler.
func NewRealtimeHandler(params RealtimeHandlerParams) *RealtimeHandler {
	allowedOrigins := params.Config.Realtime.AllowedOrigins

	return &RealtimeHandler{
		hub:        params.Hub,
		authorizer: params.Authorizer,
		trackingUC: params.TrackingUC,
		identityUC: params.IdentityUC,
		logger:     params.Logger,
		sendBuffer: params.Config.Realtime.SendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}

				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// ActorView is the identity lookup payload.
type ActorView struct {
	Role       string `json:"role"`
	DriverID   *int64 `json:"driver_id,omitempty"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}

// ResolveIdentity translates the authenticated user into the domain
// identity (driver/customer ID) a client needs before joining topics.
func (h *RealtimeHandler) ResolveIdentity(c echo.Context) error {
	userID, roles, err := callerIdentity(c)
	if err != nil {
		return err
	}

	actor, err := h.identityUC.ResolveActor(c.Request().Context(), userID, roles)
	if err != nil {
		if errors.Is(err, usecase.ErrIdentityNotResolved) {
			return response.NotFound(c, "IDENTITY_NOT_RESOLVED", "No domain record for this account")
		}
		h.logger.Error("identity resolution failed", slog.Any("error", err))

		return response.InternalServerError(c, "IDENTITY_LOOKUP_FAILED", "Could not resolve identity")
	}

	return response.Success(c, http.StatusOK, ActorView{
		Role:       actor.Role,
		DriverID:   actor.DriverID,
		CustomerID: actor.CustomerID,
	}, "Identity resolved successfully")
}

// Connect upgrades the request to a websocket and pumps it until disconnect.
// An actor whose domain identity cannot be resolved still gets a connection;
// every join it attempts is denied, so it degrades to a silent socket
// rather than an errored session.
func (h *RealtimeHandler) Connect(c echo.Context) error {
	userID, roles, err := callerIdentity(c)
	if err != nil {
		return err
	}

	actor, err := h.identityUC.ResolveActor(c.Request().Context(), userID, roles)
	if err != nil && !errors.Is(err, usecase.ErrIdentityNotResolved) {
		h.logger.Error("identity resolution failed on connect", slog.Any("error", err))

		return response.InternalServerError(c, "IDENTITY_LOOKUP_FAILED", "Could not resolve identity")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return nil
	}

	client := realtime.NewClient(realtime.ClientDeps{
		Hub:        h.hub,
		Authorizer: h.authorizer,
		Sink:       h.trackingUC,
		Logger:     h.logger,
		SendBuffer: h.sendBuffer,
	}, conn, actor)

	client.Serve(c.Request().Context())

	return nil
}
