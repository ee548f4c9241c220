package repository

import (
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
)

// VehicleFilter narrows a registry search. Chassis, DriverName, Brand and
// Plate match partially; RegionCode matches exactly.
type VehicleFilter struct {
	Chassis    string
	DriverName string
	Brand      string
	Plate      string
	RegionCode string
	Limit      int
	Offset     int
}

type VehicleRepository interface {
	Create(vehicle *model.Vehicle) error
	FindByID(id uint) (*model.Vehicle, error)
	FindByChassis(chassisNumber string) (*model.Vehicle, error)
	Update(vehicle *model.Vehicle) error
	UpdateFields(id uint, fields map[string]interface{}) error
	// Search returns the matching page ordered by creation time descending,
	// plus the total match count ignoring Limit/Offset.
	Search(filter VehicleFilter) ([]model.Vehicle, int64, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(vehicle *model.Vehicle) error {
	logger.Debug("Creating vehicle in database", map[string]interface{}{
		"chassis_number": vehicle.ChassisNumber,
		"region_code":    vehicle.RegionCode,
	})

	if err := r.db.Create(vehicle).Error; err != nil {
		logger.Error("Failed to create vehicle in database", err, map[string]interface{}{
			"chassis_number": vehicle.ChassisNumber,
			"region_code":    vehicle.RegionCode,
		})
		return err
	}

	logger.Debug("Vehicle created in database", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"chassis_number": vehicle.ChassisNumber,
		"plate_sequence": vehicle.PlateSequence,
	})
	return nil
}

func (r *vehicleRepository) FindByID(id uint) (*model.Vehicle, error) {
	logger.Debug("Finding vehicle by ID in database", map[string]interface{}{
		"vehicle_id": id,
	})

	var vehicle model.Vehicle
	if err := r.db.First(&vehicle, id).Error; err != nil {
		logger.Debug("Vehicle lookup by ID failed", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByChassis(chassisNumber string) (*model.Vehicle, error) {
	logger.Debug("Finding vehicle by chassis number in database", map[string]interface{}{
		"chassis_number": chassisNumber,
	})

	var vehicle model.Vehicle
	if err := r.db.Where("chassis_number = ?", chassisNumber).First(&vehicle).Error; err != nil {
		logger.Debug("Vehicle lookup by chassis failed", map[string]interface{}{
			"chassis_number": chassisNumber,
			"error":          err.Error(),
		})
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Update(vehicle *model.Vehicle) error {
	logger.Debug("Updating vehicle in database", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"chassis_number": vehicle.ChassisNumber,
	})

	if err := r.db.Save(vehicle).Error; err != nil {
		logger.Error("Failed to update vehicle in database", err, map[string]interface{}{
			"vehicle_id": vehicle.ID,
		})
		return err
	}
	return nil
}

func (r *vehicleRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if err := r.db.Model(&model.Vehicle{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		logger.Error("Failed to update vehicle fields in database", err, map[string]interface{}{
			"vehicle_id": id,
		})
		return err
	}
	return nil
}

func (r *vehicleRepository) Search(filter VehicleFilter) ([]model.Vehicle, int64, error) {
	logger.Debug("Searching vehicles", map[string]interface{}{
		"chassis":     filter.Chassis,
		"driver_name": filter.DriverName,
		"brand":       filter.Brand,
		"plate":       filter.Plate,
		"region_code": filter.RegionCode,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.Model(&model.Vehicle{})

	if filter.Chassis != "" {
		query = query.Where("chassis_number LIKE ?", "%"+filter.Chassis+"%")
	}
	if filter.DriverName != "" {
		query = query.Where("driver_name LIKE ?", "%"+filter.DriverName+"%")
	}
	if filter.Brand != "" {
		query = query.Where("brand LIKE ?", "%"+filter.Brand+"%")
	}
	if filter.Plate != "" {
		query = query.Where("plate_sequence LIKE ?", "%"+filter.Plate+"%")
	}
	if filter.RegionCode != "" {
		query = query.Where("region_code = ?", filter.RegionCode)
	}

	// Total count before the pagination window is applied.
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count vehicles", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var vehicles []model.Vehicle
	if err := query.Order("created_at DESC, id DESC").Find(&vehicles).Error; err != nil {
		logger.Error("Failed to search vehicles", err)
		return nil, 0, err
	}

	logger.Debug("Vehicles found", map[string]interface{}{
		"count": len(vehicles),
		"total": total,
	})
	return vehicles, total, nil
}
