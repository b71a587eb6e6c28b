// Package handler contains the HTTP request handlers.
package handler

import (
	"net/http"

	"fleet/internal/delivery/http/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// callerIdentity extracts the authenticated user set by the auth middleware.
func callerIdentity(c echo.Context) (uuid.UUID, []string, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "user identity missing from context")
	}

	roles, _ := c.Get(middleware.ContextKeyRoles).([]string)

	return userID, roles, nil
}
