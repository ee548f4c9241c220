package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/app/service"
	apperrors "github.com/rdcplates/carte-rose-backend/internal/errors"
	"github.com/rdcplates/carte-rose-backend/internal/middleware"
)

type VehicleController struct {
	vehicleService service.VehicleService
	qrService      service.QRService
	defaultPrinter string
}

func NewVehicleController(vehicleService service.VehicleService, qrService service.QRService, defaultPrinter string) *VehicleController {
	return &VehicleController{
		vehicleService: vehicleService,
		qrService:      qrService,
		defaultPrinter: defaultPrinter,
	}
}

type RegisterVehicleRequest struct {
	ChassisNumber string `json:"chassis_number" binding:"required"`
	RegionCode    string `json:"region_code" binding:"required"`

	DriverName    string `json:"driver_name"`
	DriverAddress string `json:"driver_address"`
	TaxNumber     string `json:"tax_number"`

	Brand             string `json:"brand"`
	VehicleType       string `json:"vehicle_type"`
	ManufacturingYear int    `json:"manufacturing_year"`
	Color             string `json:"color"`
	FiscalPower       int    `json:"fiscal_power"`

	ReferenceNumber   string `json:"reference_number"`
	FirstRegistration int    `json:"first_registration"`
	Usage             string `json:"usage"`

	PrintLocation string `json:"print_location"`
}

type PrintRequest struct {
	PrinterName string `json:"printer_name"`
}

// Register creates a vehicle and issues its plate
// POST /api/v1/vehicles
func (ctrl *VehicleController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid vehicle registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid vehicle details")
		return
	}

	vehicle, err := ctrl.vehicleService.Register(service.RegisterVehicleInput{
		ChassisNumber:     req.ChassisNumber,
		RegionCode:        req.RegionCode,
		DriverName:        req.DriverName,
		DriverAddress:     req.DriverAddress,
		TaxNumber:         req.TaxNumber,
		Brand:             req.Brand,
		VehicleType:       req.VehicleType,
		ManufacturingYear: req.ManufacturingYear,
		Color:             req.Color,
		FiscalPower:       req.FiscalPower,
		ReferenceNumber:   req.ReferenceNumber,
		FirstRegistration: req.FirstRegistration,
		Usage:             req.Usage,
		PrintLocation:     req.PrintLocation,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingChassis):
			apperrors.BadRequest(c, apperrors.VehicleChassisRequired, "Chassis number is required")
		case errors.Is(err, service.ErrMissingRegion):
			apperrors.BadRequest(c, apperrors.VehicleRegionRequired, "Region code is required")
		case errors.Is(err, service.ErrInvalidRegion):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRegion, "Unknown region code")
		case errors.Is(err, service.ErrDuplicateChassis):
			log.Warn("Vehicle registration rejected: duplicate chassis", map[string]interface{}{
				"chassis_number": req.ChassisNumber,
			})
			apperrors.Conflict(c, apperrors.VehicleChassisExists, "A vehicle with this chassis number is already registered")
		case errors.Is(err, service.ErrRegionCapacityExhausted):
			log.Error("Vehicle registration failed: region plate capacity exhausted", err, map[string]interface{}{
				"region_code": req.RegionCode,
			})
			apperrors.Conflict(c, apperrors.PlateRegionExhausted, "No plate numbers left for this region")
		case errors.Is(err, service.ErrStorageConflict):
			apperrors.Conflict(c, apperrors.PlateConflict, "The registration conflicted with a concurrent request. Please retry")
		default:
			log.Error("Vehicle registration failed", err, map[string]interface{}{
				"chassis_number": req.ChassisNumber,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register vehicle")
		}
		return
	}

	log.Info("Vehicle registered", map[string]interface{}{
		"vehicle_id":     vehicle.ID,
		"plate_sequence": vehicle.PlateSequence,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle registered",
		"vehicle": vehicle,
	})
}

// Get returns one vehicle by numeric id
// GET /api/v1/vehicles/:id
func (ctrl *VehicleController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	vehicle, err := ctrl.vehicleService.GetByID(id)
	if err != nil {
		respondVehicleLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle": vehicle,
	})
}

// GetByChassis returns one vehicle by chassis number. Public: drivers and
// checkpoints verify cards with it.
// GET /api/v1/vehicles/chassis/:chassis
func (ctrl *VehicleController) GetByChassis(c *gin.Context) {
	chassis := c.Param("chassis")

	vehicle, err := ctrl.vehicleService.GetByChassis(chassis)
	if err != nil {
		respondVehicleLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle": vehicle,
	})
}

// Search lists vehicles matching the query filters
// GET /api/v1/vehicles
func (ctrl *VehicleController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := searchFilterFromQuery(c)
	vehicles, total, err := ctrl.vehicleService.Search(filter)
	if err != nil {
		log.Error("Vehicle search failed", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search vehicles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// Export renders the current search filter as a spreadsheet
// GET /api/v1/vehicles/export
func (ctrl *VehicleController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.vehicleService.ExportXLSX(searchFilterFromQuery(c))
	if err != nil {
		log.Error("Vehicle export failed", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export vehicles")
		return
	}

	filename := fmt.Sprintf("vehicles-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Reprint marks a vehicle as reprinted and logs a pending reprint event.
// The path parameter accepts the numeric id or the chassis number.
// POST /api/v1/vehicles/:id/reprint
func (ctrl *VehicleController) Reprint(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PrintRequest
	// Body is optional; the configured default printer is used when absent.
	_ = c.ShouldBindJSON(&req)
	printerName := req.PrinterName
	if printerName == "" {
		printerName = ctrl.defaultPrinter
	}

	vehicle, err := ctrl.vehicleService.Reprint(c.Param("id"), printerName)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("Vehicle reprint failed", err, map[string]interface{}{
			"ref": c.Param("id"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reprint vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reprint recorded",
		"vehicle": vehicle,
	})
}

// Print records a carte rose print, generating the QR image first if the
// vehicle has none
// POST /api/v1/vehicles/:id/print
func (ctrl *VehicleController) Print(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PrintRequest
	_ = c.ShouldBindJSON(&req)
	printerName := req.PrinterName
	if printerName == "" {
		printerName = ctrl.defaultPrinter
	}

	vehicle, err := ctrl.vehicleService.PrintCarteRose(id, printerName)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("Carte rose print failed", err, map[string]interface{}{
			"vehicle_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "print carte rose")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Carte rose printed",
		"vehicle": vehicle,
	})
}

// GenerateQR regenerates the vehicle's QR payload and image
// POST /api/v1/vehicles/:id/qrcode
func (ctrl *VehicleController) GenerateQR(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	vehicle, err := ctrl.qrService.Generate(id)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("QR generation failed", err, map[string]interface{}{
			"vehicle_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "generate qr code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "QR code generated",
		"qr_code_data":  vehicle.QRCodeData,
		"qr_code_image": vehicle.QRCodeImage,
	})
}

// Regions returns the region catalog
// GET /api/v1/regions
func (ctrl *VehicleController) Regions(c *gin.Context) {
	regions := make([]gin.H, 0, len(model.RegionNames))
	for _, code := range model.RegionCodes() {
		regions = append(regions, gin.H{
			"code": code,
			"name": model.RegionNames[code],
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"regions": regions,
	})
}

func searchFilterFromQuery(c *gin.Context) repository.VehicleFilter {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return repository.VehicleFilter{
		Chassis:    c.Query("chassis"),
		DriverName: c.Query("driver"),
		Brand:      c.Query("brand"),
		Plate:      c.Query("plate"),
		RegionCode: c.Query("region"),
		Limit:      limit,
		Offset:     offset,
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid vehicle id")
		return 0, false
	}
	return uint(id), true
}

func respondVehicleLookupError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)
	if errors.Is(err, service.ErrVehicleNotFound) {
		apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
		return
	}
	log.Error("Vehicle lookup failed", err)
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get vehicle")
}
