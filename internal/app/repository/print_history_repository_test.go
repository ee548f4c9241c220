package repository

import (
	"testing"
	"time"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPrintHistoryRepoTest(t *testing.T) (PrintHistoryRepository, uint) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	vehicle := &model.Vehicle{
		ChassisNumber: "HISTREPO0001",
		RegionCode:    "01",
		PlateSequence: "0000AA01",
	}
	require.NoError(t, testDB.Create(vehicle).Error)

	return NewPrintHistoryRepository(testDB), vehicle.ID
}

func TestPrintHistoryRepository_UpdateStatus(t *testing.T) {
	repo, vehicleID := setupPrintHistoryRepoTest(t)

	entry := &model.PrintHistory{
		VehicleID: vehicleID,
		PrintType: model.PrintTypeReprint,
		PrintDate: time.Now().UTC(),
		Status:    model.PrintStatusPending,
	}
	require.NoError(t, repo.Create(entry))

	// A pending entry resolves once the print job finishes.
	require.NoError(t, repo.UpdateStatus(entry.ID, model.PrintStatusSuccess))

	entries, err := repo.FindByVehicleID(vehicleID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.PrintStatusSuccess, entries[0].Status)
	// Everything but the status is untouched.
	assert.Equal(t, model.PrintTypeReprint, entries[0].PrintType)
}

func TestPrintHistoryRepository_CountByVehicleID(t *testing.T) {
	repo, vehicleID := setupPrintHistoryRepoTest(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&model.PrintHistory{
			VehicleID: vehicleID,
			PrintType: model.PrintTypeCarteRose,
			PrintDate: time.Now().UTC(),
			Status:    model.PrintStatusSuccess,
		}))
	}

	count, err := repo.CountByVehicleID(vehicleID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountByVehicleID(9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
