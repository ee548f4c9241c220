package repository

import (
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
)

type PrintHistoryRepository interface {
	Create(entry *model.PrintHistory) error
	FindByVehicleID(vehicleID uint) ([]model.PrintHistory, error)
	UpdateStatus(id uint, status model.PrintStatus) error
	CountByVehicleID(vehicleID uint) (int64, error)
}

type printHistoryRepository struct {
	db *gorm.DB
}

func NewPrintHistoryRepository(db *gorm.DB) PrintHistoryRepository {
	return &printHistoryRepository{db: db}
}

func (r *printHistoryRepository) Create(entry *model.PrintHistory) error {
	logger.Debug("Recording print event in database", map[string]interface{}{
		"vehicle_id": entry.VehicleID,
		"print_type": entry.PrintType,
		"status":     entry.Status,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to record print event in database", err, map[string]interface{}{
			"vehicle_id": entry.VehicleID,
			"print_type": entry.PrintType,
		})
		return err
	}
	return nil
}

func (r *printHistoryRepository) FindByVehicleID(vehicleID uint) ([]model.PrintHistory, error) {
	var entries []model.PrintHistory
	if err := r.db.Where("vehicle_id = ?", vehicleID).
		Order("print_date DESC").
		Find(&entries).Error; err != nil {
		logger.Error("Failed to find print history by vehicle ID", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return nil, err
	}
	return entries, nil
}

// UpdateStatus is the only permitted mutation on a history entry.
func (r *printHistoryRepository) UpdateStatus(id uint, status model.PrintStatus) error {
	if err := r.db.Model(&model.PrintHistory{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update print event status", err, map[string]interface{}{
			"entry_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}

func (r *printHistoryRepository) CountByVehicleID(vehicleID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.PrintHistory{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
