package repository

import (
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(document *model.Document) error
	FindByID(id uint) (*model.Document, error)
	FindByVehicleID(vehicleID uint) ([]model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(document *model.Document) error {
	logger.Debug("Creating document in database", map[string]interface{}{
		"vehicle_id": document.VehicleID,
		"name":       document.Name,
		"type":       document.Type,
	})

	if err := r.db.Create(document).Error; err != nil {
		logger.Error("Failed to create document in database", err, map[string]interface{}{
			"vehicle_id": document.VehicleID,
			"name":       document.Name,
		})
		return err
	}

	logger.Debug("Document created in database", map[string]interface{}{
		"document_id": document.ID,
		"vehicle_id":  document.VehicleID,
	})
	return nil
}

func (r *documentRepository) FindByID(id uint) (*model.Document, error) {
	var document model.Document
	if err := r.db.First(&document, id).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) FindByVehicleID(vehicleID uint) ([]model.Document, error) {
	var documents []model.Document
	if err := r.db.Where("vehicle_id = ?", vehicleID).
		Order("upload_date DESC").
		Find(&documents).Error; err != nil {
		logger.Error("Failed to find documents by vehicle ID", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return nil, err
	}
	return documents, nil
}
