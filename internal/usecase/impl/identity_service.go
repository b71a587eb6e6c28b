package impl

import (
	"context"
	"log/slog"
	"slices"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/realtime"
	"fleet/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type identityService struct {
	driverRepo   repository.DriverRepository
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewIdentityService creates the identity usecase.
func NewIdentityService(
	driverRepo repository.DriverRepository,
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) usecase.IdentityUsecase {
	return &identityService{
		driverRepo:   driverRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// ResolveActor maps an authenticated user onto its domain identity. Admins
// need no domain record; drivers and customers resolve their numeric ID
// with a single lookup. A missing record yields ErrIdentityNotResolved and
// the caller degrades to notification-free operation.
func (s *identityService) ResolveActor(ctx context.Context, userID uuid.UUID, roles []string) (realtime.Actor, error) {
	switch {
	case slices.Contains(roles, entity.RoleAdmin):
		return realtime.Actor{Role: entity.RoleAdmin}, nil

	case slices.Contains(roles, entity.RoleDriver):
		driver, err := s.driverRepo.FindDriverByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrDriverNotFound) {
				return realtime.Actor{}, usecase.ErrIdentityNotResolved
			}

			return realtime.Actor{}, errors.Wrap(err, "resolve driver identity")
		}

		return realtime.Actor{Role: entity.RoleDriver, DriverID: &driver.ID}, nil

	case slices.Contains(roles, entity.RoleCustomer):
		customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return realtime.Actor{}, usecase.ErrIdentityNotResolved
			}

			return realtime.Actor{}, errors.Wrap(err, "resolve customer identity")
		}

		return realtime.Actor{Role: entity.RoleCustomer, CustomerID: &customer.ID}, nil

	default:
		s.logger.Warn("user holds no recognized role", slog.String("userID", userID.String()))

		return realtime.Actor{}, usecase.ErrIdentityNotResolved
	}
}
