package postgres

import (
	"context"

	"fleet/internal/domain/entity"
	"fleet/internal/domain/repository"
	"fleet/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// FindDeviceBySerial retrieves a tracker device by its hardware serial number.
func (repo *deviceRepository) FindDeviceBySerial(ctx context.Context, serial string) (*entity.TrackerDevice, error) {
	var deviceM model.TrackerDeviceModel

	if err := repo.db.WithContext(ctx).
		Where("serial = ?", serial).
		First(&deviceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to find device by serial")
	}

	return toTrackerDeviceDomain(&deviceM), nil
}

// UpdateDevicePosition persists the last reported coordinates on a device record.
func (repo *deviceRepository) UpdateDevicePosition(ctx context.Context, serial string, lat, lng float64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TrackerDeviceModel{}).
		Where("serial = ?", serial).
		Updates(map[string]any{
			"last_lat": lat,
			"last_lng": lng,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update device position")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// RebindDevice assigns (or clears, with nil) the driver bound to a device serial.
func (repo *deviceRepository) RebindDevice(ctx context.Context, serial string, driverID *int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TrackerDeviceModel{}).
		Where("serial = ?", serial).
		Update("driver_id", driverID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to rebind device")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toTrackerDeviceDomain(data *model.TrackerDeviceModel) *entity.TrackerDevice {
	if data == nil {
		return nil
	}

	return &entity.TrackerDevice{
		ID:        data.ID,
		Serial:    data.Serial,
		DriverID:  data.DriverID,
		LastLat:   data.LastLat,
		LastLng:   data.LastLng,
		UpdatedAt: data.UpdatedAt,
	}
}
