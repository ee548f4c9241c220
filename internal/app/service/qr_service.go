package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"github.com/rdcplates/carte-rose-backend/pkg/qrgen"
	"gorm.io/gorm"
)

type QRService interface {
	// BuildPayload assembles the QR record for a vehicle. GeneratedAt is the
	// call time, so regenerating yields a fresh timestamp.
	BuildPayload(vehicle *model.Vehicle) model.QRPayload
	// Generate renders the payload as a PNG QR image and stores both the
	// payload JSON and the base64 image on the vehicle row. The stored
	// artifacts are a derived cache; re-running is always safe.
	Generate(vehicleID uint) (*model.Vehicle, error)
}

type qrService struct {
	vehicleRepo repository.VehicleRepository
}

func NewQRService(vehicleRepo repository.VehicleRepository) QRService {
	return &qrService{vehicleRepo: vehicleRepo}
}

func (s *qrService) BuildPayload(vehicle *model.Vehicle) model.QRPayload {
	return model.QRPayload{
		Chassis:     vehicle.ChassisNumber,
		Plate:       vehicle.PlateSequence,
		UniqueID:    vehicle.UniquePlateNumber,
		Driver:      vehicle.DriverName,
		Brand:       vehicle.Brand,
		Year:        vehicle.ManufacturingYear,
		Region:      vehicle.RegionCode,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *qrService) Generate(vehicleID uint) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	payload := s.BuildPayload(vehicle)
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal QR payload", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	png, err := qrgen.EncodePNG(string(data))
	if err != nil {
		logger.Error("Failed to encode QR image", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	vehicle.QRCodeData = string(data)
	vehicle.QRCodeImage = base64.StdEncoding.EncodeToString(png)
	if err := s.vehicleRepo.UpdateFields(vehicle.ID, map[string]interface{}{
		"qr_code_data":  vehicle.QRCodeData,
		"qr_code_image": vehicle.QRCodeImage,
	}); err != nil {
		return nil, err
	}

	logger.Info("QR code generated for vehicle", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"plate_sequence": vehicle.PlateSequence,
	})
	return vehicle, nil
}
