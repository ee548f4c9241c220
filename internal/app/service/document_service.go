package service

import (
	"context"
	"errors"
	"time"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/storage"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrInvalidPrintType    = errors.New("invalid print type")
	ErrInvalidPrintStatus  = errors.New("invalid print status")
)

// AttachDocumentInput is one uploaded file plus its registry metadata.
type AttachDocumentInput struct {
	VehicleID   uint
	Name        string
	Type        model.DocumentType
	FileName    string
	ContentType string
	Data        []byte
}

type DocumentService interface {
	// Attach stores a supporting document for a vehicle. File bytes go to
	// object storage when it is configured, otherwise into the row itself.
	Attach(ctx context.Context, input AttachDocumentInput) (*model.Document, error)
	GetByID(id uint) (*model.Document, error)
	ListByVehicle(vehicleID uint) ([]model.Document, error)
	// RecordPrintEvent appends one entry to the vehicle's print ledger.
	// status defaults to pending when empty.
	RecordPrintEvent(vehicleID uint, printType model.PrintType, printerName string, status model.PrintStatus, notes string) (*model.PrintHistory, error)
	PrintHistory(vehicleID uint) ([]model.PrintHistory, error)
}

type documentService struct {
	documentRepo     repository.DocumentRepository
	printHistoryRepo repository.PrintHistoryRepository
	vehicleRepo      repository.VehicleRepository
	objectStorage    *storage.S3Storage // nil when not configured
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	printHistoryRepo repository.PrintHistoryRepository,
	vehicleRepo repository.VehicleRepository,
	objectStorage *storage.S3Storage,
) DocumentService {
	return &documentService{
		documentRepo:     documentRepo,
		printHistoryRepo: printHistoryRepo,
		vehicleRepo:      vehicleRepo,
		objectStorage:    objectStorage,
	}
}

func (s *documentService) Attach(ctx context.Context, input AttachDocumentInput) (*model.Document, error) {
	if _, err := s.vehicleRepo.FindByID(input.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	// Callers map free-form type strings to a known DocumentType before
	// reaching the ledger.
	if !model.IsValidDocumentType(input.Type) {
		return nil, ErrInvalidDocumentType
	}

	document := &model.Document{
		VehicleID:  input.VehicleID,
		Name:       input.Name,
		Type:       input.Type,
		FileName:   input.FileName,
		FileSize:   int64(len(input.Data)),
		UploadDate: time.Now().UTC(),
	}

	if s.objectStorage != nil {
		key, fileURL, err := s.objectStorage.Upload(ctx, "documents", input.FileName, input.ContentType, input.Data)
		if err != nil {
			logger.Error("Failed to upload document to object storage", err, map[string]interface{}{
				"vehicle_id": input.VehicleID,
				"file_name":  input.FileName,
			})
			return nil, err
		}
		document.FileKey = key
		document.FileURL = fileURL
	} else {
		document.FileData = input.Data
	}

	if err := s.documentRepo.Create(document); err != nil {
		if s.objectStorage != nil && document.FileKey != "" {
			if delErr := s.objectStorage.Delete(ctx, document.FileKey); delErr != nil {
				logger.Warn("Failed to clean up orphaned document object", map[string]interface{}{
					"file_key": document.FileKey,
					"error":    delErr.Error(),
				})
			}
		}
		return nil, err
	}

	logger.Info("Document attached to vehicle", map[string]interface{}{
		"vehicle_id":  input.VehicleID,
		"document_id": document.ID,
		"type":        document.Type,
	})
	return document, nil
}

func (s *documentService) GetByID(id uint) (*model.Document, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return document, nil
}

func (s *documentService) ListByVehicle(vehicleID uint) ([]model.Document, error) {
	if _, err := s.vehicleRepo.FindByID(vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return s.documentRepo.FindByVehicleID(vehicleID)
}

func (s *documentService) RecordPrintEvent(vehicleID uint, printType model.PrintType, printerName string, status model.PrintStatus, notes string) (*model.PrintHistory, error) {
	if _, err := s.vehicleRepo.FindByID(vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	if !model.IsValidPrintType(printType) {
		return nil, ErrInvalidPrintType
	}
	if status == "" {
		status = model.PrintStatusPending
	}
	if !model.IsValidPrintStatus(status) {
		return nil, ErrInvalidPrintStatus
	}

	entry := &model.PrintHistory{
		VehicleID:   vehicleID,
		PrintType:   printType,
		PrintDate:   time.Now().UTC(),
		PrinterName: printerName,
		Status:      status,
		Notes:       notes,
	}
	if err := s.printHistoryRepo.Create(entry); err != nil {
		return nil, err
	}

	logger.Info("Print event recorded", map[string]interface{}{
		"vehicle_id": vehicleID,
		"print_type": printType,
		"status":     status,
	})
	return entry, nil
}

func (s *documentService) PrintHistory(vehicleID uint) ([]model.PrintHistory, error) {
	if _, err := s.vehicleRepo.FindByID(vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return s.printHistoryRepo.FindByVehicleID(vehicleID)
}
