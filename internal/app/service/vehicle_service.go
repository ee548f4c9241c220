package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	apperrors "github.com/rdcplates/carte-rose-backend/internal/errors"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrMissingChassis   = errors.New("chassis number is required")
	ErrMissingRegion    = errors.New("region code is required")
	ErrDuplicateChassis = errors.New("a vehicle with this chassis number already exists")
	ErrVehicleNotFound  = errors.New("vehicle not found")
)

// RegisterVehicleInput carries everything a registration office captures for
// a new vehicle. ChassisNumber and RegionCode are mandatory; the rest is
// stored as given.
type RegisterVehicleInput struct {
	ChassisNumber string
	RegionCode    string

	DriverName    string
	DriverAddress string
	TaxNumber     string

	Brand             string
	VehicleType       string
	ManufacturingYear int
	Color             string
	FiscalPower       int

	ReferenceNumber   string
	FirstRegistration int
	Usage             string

	PrintLocation string
}

type VehicleService interface {
	// Register creates a vehicle with a freshly allocated plate code. Plate
	// allocation, the vehicle insert and the derived unique plate number all
	// commit in one transaction; QR generation runs afterwards and its
	// failure never undoes the registration.
	Register(input RegisterVehicleInput) (*model.Vehicle, error)
	GetByID(id uint) (*model.Vehicle, error)
	GetByChassis(chassisNumber string) (*model.Vehicle, error)
	// Reprint marks a vehicle as reprinted and appends a pending reprint
	// event. ref may be the numeric id or the chassis number.
	Reprint(ref string, printerName string) (*model.Vehicle, error)
	// PrintCarteRose ensures the vehicle has a QR image (generating one if
	// absent) and records a successful carte rose print event.
	PrintCarteRose(id uint, printerName string) (*model.Vehicle, error)
	Search(filter repository.VehicleFilter) ([]model.Vehicle, int64, error)
	// ExportXLSX renders the vehicles matching filter (pagination ignored)
	// as a spreadsheet.
	ExportXLSX(filter repository.VehicleFilter) ([]byte, error)
}

type vehicleService struct {
	vehicleRepo      repository.VehicleRepository
	printHistoryRepo repository.PrintHistoryRepository
	plateService     PlateService
	qrService        QRService
	db               *gorm.DB
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	printHistoryRepo repository.PrintHistoryRepository,
	plateService PlateService,
	qrService QRService,
	db *gorm.DB,
) VehicleService {
	return &vehicleService{
		vehicleRepo:      vehicleRepo,
		printHistoryRepo: printHistoryRepo,
		plateService:     plateService,
		qrService:        qrService,
		db:               db,
	}
}

func (s *vehicleService) Register(input RegisterVehicleInput) (*model.Vehicle, error) {
	chassis := strings.TrimSpace(input.ChassisNumber)
	if chassis == "" {
		return nil, ErrMissingChassis
	}
	regionCode := strings.TrimSpace(input.RegionCode)
	if regionCode == "" {
		return nil, ErrMissingRegion
	}
	if !model.IsValidRegionCode(regionCode) {
		return nil, ErrInvalidRegion
	}

	// Courtesy pre-check. The unique index on chassis_number is the
	// authoritative guard; a concurrent insert slipping past this read is
	// caught below as a unique violation.
	if existing, err := s.vehicleRepo.FindByChassis(chassis); err == nil && existing != nil {
		return nil, ErrDuplicateChassis
	}

	var vehicle *model.Vehicle
	var lastErr error
	for attempt := 1; attempt <= allocateMaxAttempts; attempt++ {
		vehicle = nil
		err := s.db.Transaction(func(tx *gorm.DB) error {
			plateCode, err := s.plateService.AllocateIn(tx, regionCode)
			if err != nil {
				return err
			}

			v := &model.Vehicle{
				ChassisNumber:     chassis,
				RegionCode:        regionCode,
				DriverName:        input.DriverName,
				DriverAddress:     input.DriverAddress,
				TaxNumber:         input.TaxNumber,
				Brand:             input.Brand,
				VehicleType:       input.VehicleType,
				ManufacturingYear: input.ManufacturingYear,
				Color:             input.Color,
				FiscalPower:       input.FiscalPower,
				ReferenceNumber:   input.ReferenceNumber,
				FirstRegistration: input.FirstRegistration,
				Usage:             input.Usage,
				PlateSequence:     plateCode,
				PrintLocation:     input.PrintLocation,
			}

			txRepo := repository.NewVehicleRepository(tx)
			if err := txRepo.Create(v); err != nil {
				return err
			}

			// The 7-digit card number is derived from the row id, which only
			// exists after the insert.
			v.UniquePlateNumber = fmt.Sprintf("%07d", v.ID)
			if err := txRepo.UpdateFields(v.ID, map[string]interface{}{
				"unique_plate_number": v.UniquePlateNumber,
			}); err != nil {
				return err
			}

			vehicle = v
			return nil
		})
		if err == nil {
			break
		}

		if apperrors.IsUniqueViolation(err) {
			if strings.Contains(err.Error(), "chassis") {
				logger.Warn("Vehicle registration rejected: duplicate chassis", map[string]interface{}{
					"chassis_number": chassis,
				})
				return nil, ErrDuplicateChassis
			}
			// Unique violation on another index (plate text, counter row)
			// is a transient race; re-run the whole transaction.
			err = fmt.Errorf("%w: %v", ErrStorageConflict, err)
		}
		if apperrors.IsConflict(err) {
			err = fmt.Errorf("%w: %v", ErrStorageConflict, err)
		}
		if !errors.Is(err, ErrStorageConflict) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Vehicle registration conflict, retrying", map[string]interface{}{
			"chassis_number": chassis,
			"region_code":    regionCode,
			"attempt":        attempt,
		})
	}
	if vehicle == nil {
		logger.Error("Vehicle registration failed after retries", lastErr, map[string]interface{}{
			"chassis_number": chassis,
			"region_code":    regionCode,
		})
		return nil, lastErr
	}

	logger.Info("Vehicle registered", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"chassis_number": vehicle.ChassisNumber,
		"plate_sequence": vehicle.PlateSequence,
		"region_code":    vehicle.RegionCode,
	})

	// Derived cache only. A QR failure here leaves the committed vehicle
	// intact; the code can be regenerated at any time.
	if withQR, err := s.qrService.Generate(vehicle.ID); err != nil {
		logger.Warn("QR generation failed after registration", map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"error":      err.Error(),
		})
	} else {
		vehicle = withQR
	}

	return vehicle, nil
}

func (s *vehicleService) GetByID(id uint) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) GetByChassis(chassisNumber string) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByChassis(chassisNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// resolveRef looks a vehicle up by numeric id first, falling back to chassis
// number.
func (s *vehicleService) resolveRef(ref string) (*model.Vehicle, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		vehicle, err := s.vehicleRepo.FindByID(uint(id))
		if err == nil {
			return vehicle, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.GetByChassis(ref)
}

func (s *vehicleService) Reprint(ref string, printerName string) (*model.Vehicle, error) {
	vehicle, err := s.resolveRef(ref)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txVehicles := repository.NewVehicleRepository(tx)
		if err := txVehicles.UpdateFields(vehicle.ID, map[string]interface{}{
			"is_reprinted": true,
			"print_date":   now,
		}); err != nil {
			return err
		}

		txHistory := repository.NewPrintHistoryRepository(tx)
		return txHistory.Create(&model.PrintHistory{
			VehicleID:   vehicle.ID,
			PrintType:   model.PrintTypeReprint,
			PrintDate:   now,
			PrinterName: printerName,
			Status:      model.PrintStatusPending,
		})
	})
	if err != nil {
		logger.Error("Failed to record vehicle reprint", err, map[string]interface{}{
			"vehicle_id": vehicle.ID,
		})
		return nil, err
	}

	vehicle.IsReprinted = true
	vehicle.PrintDate = &now
	logger.Info("Vehicle reprint recorded", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"plate_sequence": vehicle.PlateSequence,
		"printer_name":   printerName,
	})
	return vehicle, nil
}

func (s *vehicleService) PrintCarteRose(id uint, printerName string) (*model.Vehicle, error) {
	vehicle, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if vehicle.QRCodeImage == "" {
		vehicle, err = s.qrService.Generate(vehicle.ID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txVehicles := repository.NewVehicleRepository(tx)
		if err := txVehicles.UpdateFields(vehicle.ID, map[string]interface{}{
			"print_date": now,
		}); err != nil {
			return err
		}

		txHistory := repository.NewPrintHistoryRepository(tx)
		return txHistory.Create(&model.PrintHistory{
			VehicleID:   vehicle.ID,
			PrintType:   model.PrintTypeCarteRose,
			PrintDate:   now,
			PrinterName: printerName,
			Status:      model.PrintStatusSuccess,
		})
	})
	if err != nil {
		logger.Error("Failed to record carte rose print", err, map[string]interface{}{
			"vehicle_id": vehicle.ID,
		})
		return nil, err
	}

	vehicle.PrintDate = &now
	logger.Info("Carte rose printed", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"plate_sequence": vehicle.PlateSequence,
		"printer_name":   printerName,
	})
	return vehicle, nil
}

func (s *vehicleService) Search(filter repository.VehicleFilter) ([]model.Vehicle, int64, error) {
	return s.vehicleRepo.Search(filter)
}

var exportHeaders = []string{
	"ID", "Chassis Number", "Plate", "Card Number", "Region",
	"Driver", "Brand", "Type", "Year", "Color", "Registered At",
}

func (s *vehicleService) ExportXLSX(filter repository.VehicleFilter) ([]byte, error) {
	filter.Limit = 0
	filter.Offset = 0
	vehicles, _, err := s.vehicleRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Vehicles"
	f.SetSheetName(f.GetSheetName(0), sheet)
	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, v := range vehicles {
		values := []interface{}{
			v.ID, v.ChassisNumber, v.PlateSequence, v.UniquePlateNumber,
			v.RegionName(), v.DriverName, v.Brand, v.VehicleType,
			v.ManufacturingYear, v.Color, v.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to render vehicle export spreadsheet", err)
		return nil, err
	}

	logger.Info("Vehicle registry exported", map[string]interface{}{
		"count": len(vehicles),
	})
	return buf.Bytes(), nil
}
