package service

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupQRServiceTest(t *testing.T) (QRService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	vehicleRepo := repository.NewVehicleRepository(testDB)
	return NewQRService(vehicleRepo), testDB
}

func qrTestVehicle() *model.Vehicle {
	return &model.Vehicle{
		ChassisNumber:     "QRTEST000001",
		RegionCode:        "14",
		DriverName:        "Marie Kabila",
		Brand:             "Hyundai",
		ManufacturingYear: 2021,
		PlateSequence:     "0000AB14",
		UniquePlateNumber: "0000042",
	}
}

func TestQRService_BuildPayload(t *testing.T) {
	qrService, _ := setupQRServiceTest(t)

	payload := qrService.BuildPayload(qrTestVehicle())

	assert.Equal(t, "QRTEST000001", payload.Chassis)
	assert.Equal(t, "0000AB14", payload.Plate)
	assert.Equal(t, "0000042", payload.UniqueID)
	assert.Equal(t, "Marie Kabila", payload.Driver)
	assert.Equal(t, "Hyundai", payload.Brand)
	assert.Equal(t, 2021, payload.Year)
	// The payload carries the raw 2-digit region code, not the display name,
	// so scanners can match it against the plate's last two characters.
	assert.Equal(t, "14", payload.Region)
	assert.NotEmpty(t, payload.GeneratedAt)
}

func TestQRService_PayloadJSONKeys(t *testing.T) {
	qrService, _ := setupQRServiceTest(t)

	payload := qrService.BuildPayload(qrTestVehicle())
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	// The key set is a compatibility surface for card scanners.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"chassis", "plate", "unique_id", "driver", "brand", "year", "region", "generated_at"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 8)

	var roundTrip model.QRPayload
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, payload, roundTrip)
}

func TestQRService_Generate(t *testing.T) {
	qrService, testDB := setupQRServiceTest(t)

	vehicle := qrTestVehicle()
	require.NoError(t, testDB.Create(vehicle).Error)

	updated, err := qrService.Generate(vehicle.ID)
	require.NoError(t, err)
	require.NotEmpty(t, updated.QRCodeData)
	require.NotEmpty(t, updated.QRCodeImage)

	// The stored image is a base64 PNG.
	png, err := base64.StdEncoding.DecodeString(updated.QRCodeImage)
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	// Stored payload parses back to the vehicle's identity.
	var payload model.QRPayload
	require.NoError(t, json.Unmarshal([]byte(updated.QRCodeData), &payload))
	assert.Equal(t, vehicle.ChassisNumber, payload.Chassis)
	assert.Equal(t, vehicle.PlateSequence, payload.Plate)
	assert.Equal(t, vehicle.RegionCode, payload.Region)

	// Persisted on the row as well.
	var stored model.Vehicle
	require.NoError(t, testDB.First(&stored, vehicle.ID).Error)
	assert.Equal(t, updated.QRCodeData, stored.QRCodeData)
	assert.Equal(t, updated.QRCodeImage, stored.QRCodeImage)
}

func TestQRService_Generate_FreshTimestamp(t *testing.T) {
	qrService, testDB := setupQRServiceTest(t)

	vehicle := qrTestVehicle()
	require.NoError(t, testDB.Create(vehicle).Error)

	first, err := qrService.Generate(vehicle.ID)
	require.NoError(t, err)

	// Regeneration is always safe and rebuilds the payload.
	second, err := qrService.Generate(vehicle.ID)
	require.NoError(t, err)

	var p1, p2 model.QRPayload
	require.NoError(t, json.Unmarshal([]byte(first.QRCodeData), &p1))
	require.NoError(t, json.Unmarshal([]byte(second.QRCodeData), &p2))
	assert.Equal(t, p1.Chassis, p2.Chassis)
	assert.NotEmpty(t, p2.GeneratedAt)
}

func TestQRService_Generate_VehicleNotFound(t *testing.T) {
	qrService, _ := setupQRServiceTest(t)

	_, err := qrService.Generate(9999)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}
