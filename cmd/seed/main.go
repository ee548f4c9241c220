package main

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/rdcplates/carte-rose-backend/config"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/app/service"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Expected column order in the import spreadsheet. The first row is a header
// and is skipped.
//
//	chassis | region | driver | address | tax no | brand | type | year |
//	color | fiscal power | reference | first registration | usage
func main() {
	filePath := flag.String("file", "", "path to the .xlsx file with vehicles to import")
	flag.Parse()

	if *filePath == "" {
		logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})
		logger.Fatal("Missing -file argument", errors.New("no input file"))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	vehicleRepo := repository.NewVehicleRepository(db.GetDB())
	sequenceRepo := repository.NewPlateSequenceRepository(db.GetDB())
	printHistoryRepo := repository.NewPrintHistoryRepository(db.GetDB())

	plateService := service.NewPlateService(sequenceRepo, db.GetDB())
	qrService := service.NewQRService(vehicleRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, printHistoryRepo, plateService, qrService, db.GetDB())

	f, err := excelize.OpenFile(*filePath)
	if err != nil {
		logger.Fatal("Failed to open spreadsheet", err, map[string]interface{}{
			"file": *filePath,
		})
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		logger.Fatal("Failed to read spreadsheet rows", err)
	}

	imported, skipped, failed := 0, 0, 0
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		input := rowToInput(row)
		if input.ChassisNumber == "" {
			continue // blank line
		}

		_, err := vehicleService.Register(input)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, service.ErrDuplicateChassis):
			skipped++
			logger.Warn("Skipping already registered vehicle", map[string]interface{}{
				"row":            i + 1,
				"chassis_number": input.ChassisNumber,
			})
		default:
			failed++
			logger.Error("Failed to import vehicle", err, map[string]interface{}{
				"row":            i + 1,
				"chassis_number": input.ChassisNumber,
			})
		}
	}

	logger.Info("Vehicle import finished", map[string]interface{}{
		"imported": imported,
		"skipped":  skipped,
		"failed":   failed,
	})
	if failed > 0 {
		os.Exit(1)
	}
}

func rowToInput(row []string) service.RegisterVehicleInput {
	return service.RegisterVehicleInput{
		ChassisNumber:     cell(row, 0),
		RegionCode:        cell(row, 1),
		DriverName:        cell(row, 2),
		DriverAddress:     cell(row, 3),
		TaxNumber:         cell(row, 4),
		Brand:             cell(row, 5),
		VehicleType:       cell(row, 6),
		ManufacturingYear: cellInt(row, 7),
		Color:             cell(row, 8),
		FiscalPower:       cellInt(row, 9),
		ReferenceNumber:   cell(row, 10),
		FirstRegistration: cellInt(row, 11),
		Usage:             cell(row, 12),
	}
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, idx int) int {
	n, err := strconv.Atoi(cell(row, idx))
	if err != nil {
		return 0
	}
	return n
}
