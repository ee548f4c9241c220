package service

import (
	"context"
	"testing"
	"time"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDocumentServiceTest(t *testing.T) (DocumentService, *gorm.DB, *model.Vehicle) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	documentRepo := repository.NewDocumentRepository(testDB)
	printHistoryRepo := repository.NewPrintHistoryRepository(testDB)
	vehicleRepo := repository.NewVehicleRepository(testDB)
	// No object storage in tests; file bytes land on the row.
	documentService := NewDocumentService(documentRepo, printHistoryRepo, vehicleRepo, nil)

	vehicle := &model.Vehicle{
		ChassisNumber: "DOCTEST00001",
		RegionCode:    "01",
		PlateSequence: "0000AA01",
	}
	require.NoError(t, testDB.Create(vehicle).Error)

	return documentService, testDB, vehicle
}

func TestDocumentService_Attach(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	document, err := documentService.Attach(context.Background(), AttachDocumentInput{
		VehicleID:   vehicle.ID,
		Name:        "Assurance 2026",
		Type:        model.DocumentInsurance,
		FileName:    "assurance.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	})
	require.NoError(t, err)
	require.NotZero(t, document.ID)

	assert.Equal(t, model.DocumentInsurance, document.Type)
	assert.Equal(t, int64(13), document.FileSize)
	assert.Equal(t, []byte("%PDF-1.4 fake"), document.FileData)
	assert.Empty(t, document.FileKey)
	assert.False(t, document.UploadDate.IsZero())
}

func TestDocumentService_Attach_UnknownTypeRejected(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	_, err := documentService.Attach(context.Background(), AttachDocumentInput{
		VehicleID: vehicle.ID,
		Name:      "Divers",
		Type:      "carte-grise",
		FileName:  "divers.pdf",
		Data:      []byte("x"),
	})
	assert.ErrorIs(t, err, ErrInvalidDocumentType)
}

func TestDocumentService_Attach_VehicleNotFound(t *testing.T) {
	documentService, _, _ := setupDocumentServiceTest(t)

	_, err := documentService.Attach(context.Background(), AttachDocumentInput{
		VehicleID: 9999,
		Name:      "Orphan",
		Data:      []byte("x"),
	})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestDocumentService_GetByID(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	created, err := documentService.Attach(context.Background(), AttachDocumentInput{
		VehicleID: vehicle.ID,
		Name:      "Carte grise",
		Type:      model.DocumentRegistration,
		FileName:  "carte.pdf",
		Data:      []byte("x"),
	})
	require.NoError(t, err)

	found, err := documentService.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carte grise", found.Name)

	_, err = documentService.GetByID(9999)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_ListByVehicle_NewestFirst(t *testing.T) {
	documentService, testDB, vehicle := setupDocumentServiceTest(t)

	older := &model.Document{
		VehicleID:  vehicle.ID,
		Name:       "Ancien",
		Type:       model.DocumentRegistration,
		UploadDate: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, testDB.Create(older).Error)
	newer := &model.Document{
		VehicleID:  vehicle.ID,
		Name:       "Récent",
		Type:       model.DocumentInspection,
		UploadDate: time.Now().UTC(),
	}
	require.NoError(t, testDB.Create(newer).Error)

	documents, err := documentService.ListByVehicle(vehicle.ID)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "Récent", documents[0].Name)
	assert.Equal(t, "Ancien", documents[1].Name)
}

func TestDocumentService_RecordPrintEvent(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	entry, err := documentService.RecordPrintEvent(vehicle.ID, model.PrintTypeLicensePlate, "Authentys Pro RT1", model.PrintStatusSuccess, "first print")
	require.NoError(t, err)
	assert.Equal(t, model.PrintTypeLicensePlate, entry.PrintType)
	assert.Equal(t, model.PrintStatusSuccess, entry.Status)
	assert.Equal(t, "first print", entry.Notes)
	assert.False(t, entry.PrintDate.IsZero())
}

func TestDocumentService_RecordPrintEvent_DefaultStatus(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	entry, err := documentService.RecordPrintEvent(vehicle.ID, model.PrintTypeCarteRose, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, model.PrintStatusPending, entry.Status)
}

func TestDocumentService_RecordPrintEvent_Validation(t *testing.T) {
	documentService, _, vehicle := setupDocumentServiceTest(t)

	_, err := documentService.RecordPrintEvent(vehicle.ID, "sticker", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidPrintType)

	_, err = documentService.RecordPrintEvent(vehicle.ID, model.PrintTypeCarteRose, "", "done", "")
	assert.ErrorIs(t, err, ErrInvalidPrintStatus)

	_, err = documentService.RecordPrintEvent(9999, model.PrintTypeCarteRose, "", "", "")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestDocumentService_PrintHistory_NewestFirst(t *testing.T) {
	documentService, testDB, vehicle := setupDocumentServiceTest(t)

	older := &model.PrintHistory{
		VehicleID: vehicle.ID,
		PrintType: model.PrintTypeLicensePlate,
		PrintDate: time.Now().UTC().Add(-time.Hour),
		Status:    model.PrintStatusSuccess,
	}
	require.NoError(t, testDB.Create(older).Error)
	newer := &model.PrintHistory{
		VehicleID: vehicle.ID,
		PrintType: model.PrintTypeReprint,
		PrintDate: time.Now().UTC(),
		Status:    model.PrintStatusPending,
	}
	require.NoError(t, testDB.Create(newer).Error)

	history, err := documentService.PrintHistory(vehicle.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.PrintTypeReprint, history[0].PrintType)
	assert.Equal(t, model.PrintTypeLicensePlate, history[1].PrintType)
}
