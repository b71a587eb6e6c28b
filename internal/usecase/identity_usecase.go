package usecase

import (
	"context"

	"fleet/internal/realtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrIdentityNotResolved is returned when an authenticated user has no
// driver or customer record matching its role. Clients degrade to
// notification-free operation instead of failing the session.
var ErrIdentityNotResolved = errors.New("identity not resolved")

// IdentityUsecase translates the authenticated user identity into the
// domain identity (driver/customer ID) a client needs to compute its topics.
type IdentityUsecase interface {
	// ResolveActor performs the one lookup a mounting client issues before
	// subscribing.
	ResolveActor(ctx context.Context, userID uuid.UUID, roles []string) (realtime.Actor, error)
}
