package repository

import (
	"fmt"
	"testing"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVehicleRepoTest(t *testing.T) (VehicleRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewVehicleRepository(testDB), testDB
}

func TestVehicleRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupVehicleRepoTest(t)

	vehicle := &model.Vehicle{
		ChassisNumber: "REPO00000001",
		RegionCode:    "01",
		DriverName:    "Jean Mukendi",
		Brand:         "Toyota",
		PlateSequence: "0000AA01",
	}
	require.NoError(t, repo.Create(vehicle))
	require.NotZero(t, vehicle.ID)

	byID, err := repo.FindByID(vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, "REPO00000001", byID.ChassisNumber)

	byChassis, err := repo.FindByChassis("REPO00000001")
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, byChassis.ID)

	_, err = repo.FindByChassis("MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVehicleRepository_Create_DuplicateChassis(t *testing.T) {
	repo, _ := setupVehicleRepoTest(t)

	require.NoError(t, repo.Create(&model.Vehicle{
		ChassisNumber: "UNIQUE000001",
		RegionCode:    "01",
		PlateSequence: "0000AA01",
	}))

	err := repo.Create(&model.Vehicle{
		ChassisNumber: "UNIQUE000001",
		RegionCode:    "02",
		PlateSequence: "0000AA02",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chassis_number")
}

func TestVehicleRepository_UpdateFields(t *testing.T) {
	repo, _ := setupVehicleRepoTest(t)

	vehicle := &model.Vehicle{
		ChassisNumber: "FIELDS000001",
		RegionCode:    "01",
		PlateSequence: "0000AA01",
	}
	require.NoError(t, repo.Create(vehicle))

	require.NoError(t, repo.UpdateFields(vehicle.ID, map[string]interface{}{
		"unique_plate_number": "0000042",
		"is_reprinted":        true,
	}))

	updated, err := repo.FindByID(vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, "0000042", updated.UniquePlateNumber)
	assert.True(t, updated.IsReprinted)
}

func TestVehicleRepository_Search(t *testing.T) {
	repo, _ := setupVehicleRepoTest(t)

	for i := 0; i < 5; i++ {
		region := "01"
		brand := "Toyota"
		if i >= 3 {
			region = "02"
			brand = "Nissan"
		}
		require.NoError(t, repo.Create(&model.Vehicle{
			ChassisNumber: fmt.Sprintf("SEARCH%06d", i),
			RegionCode:    region,
			Brand:         brand,
			DriverName:    fmt.Sprintf("Driver %d", i),
			PlateSequence: fmt.Sprintf("%04dAA%s", i, region),
		}))
	}

	// Partial chassis match.
	vehicles, total, err := repo.Search(VehicleFilter{Chassis: "SEARCH"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, vehicles, 5)

	// Exact region.
	_, total, err = repo.Search(VehicleFilter{RegionCode: "02"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Partial brand match.
	_, total, err = repo.Search(VehicleFilter{Brand: "Niss"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Pagination window with total unaffected.
	vehicles, total, err = repo.Search(VehicleFilter{Chassis: "SEARCH", Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, vehicles, 1)

	// No match.
	vehicles, total, err = repo.Search(VehicleFilter{Chassis: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, vehicles)
}
