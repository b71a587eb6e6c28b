package postgres

import (
	"context"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// deliveryRepository implements the repository.DeliveryRepository interface.
type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository is the constructor for deliveryRepository.
func NewDeliveryRepository(db *gorm.DB) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

// CreateDelivery persists a new delivery.
func (repo *deliveryRepository) CreateDelivery(ctx context.Context, delivery *entity.Delivery) error {
	deliveryM := fromDeliveryDomain(delivery)

	if err := repo.db.WithContext(ctx).Create(deliveryM).Error; err != nil {
		return errors.Wrap(err, "failed to create delivery")
	}

	delivery.ID = deliveryM.ID
	delivery.CreatedAt = deliveryM.CreatedAt
	delivery.UpdatedAt = deliveryM.UpdatedAt

	return nil
}

// FindDeliveryByID retrieves a delivery by its numeric ID.
func (repo *deliveryRepository) FindDeliveryByID(ctx context.Context, id int64) (*entity.Delivery, error) {
	var deliveryM model.DeliveryModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&deliveryM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeliveryNotFound
		}

		return nil, errors.Wrap(err, "failed to find delivery by ID")
	}

	return toDeliveryDomain(&deliveryM), nil
}

// UpdateDeliveryPosition persists the last reported driver coordinates.
// A write against a nonexistent delivery surfaces as ErrDeliveryNotFound
// (zero rows affected) rather than a database error.
func (repo *deliveryRepository) UpdateDeliveryPosition(ctx context.Context, id int64, lat, lng float64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DeliveryModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_lat": lat,
			"current_lng": lng,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update delivery position")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeliveryNotFound
	}

	return nil
}

// AssignDelivery sets the driver and vehicle working a delivery.
func (repo *deliveryRepository) AssignDelivery(ctx context.Context, id, driverID, vehicleID int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DeliveryModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"driver_id":  driverID,
			"vehicle_id": vehicleID,
			"status":     string(entity.DeliveryStatusAssigned),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to assign delivery")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeliveryNotFound
	}

	return nil
}

// UpdateDeliveryStatus sets the status of a delivery.
func (repo *deliveryRepository) UpdateDeliveryStatus(ctx context.Context, id int64, status entity.DeliveryStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DeliveryModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update delivery status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeliveryNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toDeliveryDomain(data *model.DeliveryModel) *entity.Delivery {
	if data == nil {
		return nil
	}

	return &entity.Delivery{
		ID:         data.ID,
		OrderID:    data.OrderID,
		CustomerID: data.CustomerID,
		DriverID:   data.DriverID,
		VehicleID:  data.VehicleID,
		Status:     entity.DeliveryStatus(data.Status),
		CurrentLat: data.CurrentLat,
		CurrentLng: data.CurrentLng,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromDeliveryDomain(data *entity.Delivery) *model.DeliveryModel {
	if data == nil {
		return nil
	}

	return &model.DeliveryModel{
		ID:         data.ID,
		OrderID:    data.OrderID,
		CustomerID: data.CustomerID,
		DriverID:   data.DriverID,
		VehicleID:  data.VehicleID,
		Status:     string(data.Status),
		CurrentLat: data.CurrentLat,
		CurrentLng: data.CurrentLng,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
