package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/service"
	apperrors "github.com/rdcplates/carte-rose-backend/internal/errors"
	"github.com/rdcplates/carte-rose-backend/internal/middleware"
)

// Uploaded documents are scans of paper; anything bigger than this is not a
// scan.
const maxDocumentSize = 20 << 20

type DocumentController struct {
	documentService service.DocumentService
	defaultPrinter  string
}

func NewDocumentController(documentService service.DocumentService, defaultPrinter string) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		defaultPrinter:  defaultPrinter,
	}
}

type RecordPrintRequest struct {
	PrintType   string `json:"print_type" binding:"required"`
	PrinterName string `json:"printer_name"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// Attach stores an uploaded document for a vehicle
// POST /api/v1/vehicles/:id/documents
func (ctrl *DocumentController) Attach(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A document file is required")
		return
	}
	if fileHeader.Size > maxDocumentSize {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Document file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded document", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded document", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		apperrors.InternalError(c, "")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	// Free-form type strings from the form fall back to "other" here so the
	// ledger only ever sees known document types.
	docType := model.DocumentType(c.PostForm("type"))
	if !model.IsValidDocumentType(docType) {
		docType = model.DocumentOther
	}

	document, err := ctrl.documentService.Attach(c.Request.Context(), service.AttachDocumentInput{
		VehicleID:   vehicleID,
		Name:        name,
		Type:        docType,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("Failed to attach document", err, map[string]interface{}{
			"vehicle_id": vehicleID,
			"file_name":  fileHeader.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.DocumentUploadFailed, "Failed to store the document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document attached",
		"document": document,
	})
}

// List returns a vehicle's documents, newest first
// GET /api/v1/vehicles/:id/documents
func (ctrl *DocumentController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	documents, err := ctrl.documentService.ListByVehicle(vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("Failed to list documents", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
	})
}

// RecordPrint appends a print event to a vehicle's ledger
// POST /api/v1/vehicles/:id/history
func (ctrl *DocumentController) RecordPrint(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RecordPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid print event details")
		return
	}

	printerName := req.PrinterName
	if printerName == "" {
		printerName = ctrl.defaultPrinter
	}

	entry, err := ctrl.documentService.RecordPrintEvent(
		vehicleID,
		model.PrintType(req.PrintType),
		printerName,
		model.PrintStatus(req.Status),
		req.Notes,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
		case errors.Is(err, service.ErrInvalidPrintType):
			apperrors.BadRequest(c, apperrors.PrintInvalidType, "Unknown print type")
		case errors.Is(err, service.ErrInvalidPrintStatus):
			apperrors.BadRequest(c, apperrors.PrintInvalidStatus, "Unknown print status")
		default:
			log.Error("Failed to record print event", err, map[string]interface{}{
				"vehicle_id": vehicleID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "record print event")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Print event recorded",
		"entry":   entry,
	})
}

// History returns a vehicle's print ledger, newest first
// GET /api/v1/vehicles/:id/history
func (ctrl *DocumentController) History(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vehicleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	history, err := ctrl.documentService.PrintHistory(vehicleID)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			apperrors.NotFound(c, apperrors.VehicleNotFound, "Vehicle not found")
			return
		}
		log.Error("Failed to list print history", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list print history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
	})
}
