package postgres

import (
	"context"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// driverRepository implements the repository.DriverRepository interface.
type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository is the constructor for driverRepository.
func NewDriverRepository(db *gorm.DB) repository.DriverRepository {
	return &driverRepository{db: db}
}

// FindDriverByID retrieves a driver by its numeric ID.
func (repo *driverRepository) FindDriverByID(ctx context.Context, id int64) (*entity.Driver, error) {
	var driverM model.DriverModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&driverM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDriverNotFound
		}

		return nil, errors.Wrap(err, "failed to find driver by ID")
	}

	return toDriverDomain(&driverM), nil
}

// FindDriverByUserID resolves the driver record owned by an authenticated user.
func (repo *driverRepository) FindDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error) {
	var driverM model.DriverModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&driverM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDriverNotFound
		}

		return nil, errors.Wrap(err, "failed to find driver by user ID")
	}

	return toDriverDomain(&driverM), nil
}

// customerRepository implements the repository.CustomerRepository interface.
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// FindCustomerByID retrieves a customer by its numeric ID.
func (repo *customerRepository) FindCustomerByID(ctx context.Context, id int64) (*entity.Customer, error) {
	var customerM model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by ID")
	}

	return toCustomerDomain(&customerM), nil
}

// FindCustomerByUserID resolves the customer record owned by an authenticated user.
func (repo *customerRepository) FindCustomerByUserID(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by user ID")
	}

	return toCustomerDomain(&customerM), nil
}

// --- Mapper Functions ---

func toDriverDomain(data *model.DriverModel) *entity.Driver {
	if data == nil {
		return nil
	}

	return &entity.Driver{
		ID:        data.ID,
		UserID:    data.UserID,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Phone:     data.Phone,
	}
}

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	return &entity.Customer{
		ID:     data.ID,
		UserID: data.UserID,
		Name:   data.Name,
		Phone:  data.Phone,
	}
}
