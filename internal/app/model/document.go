package model

import (
	"time"

	"gorm.io/gorm"
)

type DocumentType string // supporting document category

const (
	DocumentRegistration DocumentType = "registration" // Registration Document
	DocumentInsurance    DocumentType = "insurance"    // Insurance Document
	DocumentInspection   DocumentType = "inspection"   // Inspection Certificate
	DocumentOther        DocumentType = "other"        // Other Document
)

// IsValidDocumentType reports whether t is one of the known document types.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentRegistration, DocumentInsurance, DocumentInspection, DocumentOther:
		return true
	}
	return false
}

// Document is a supporting file attached to a vehicle. Immutable once
// uploaded except for its metadata; cascade-deleted with the vehicle. The
// file content lives either in FileData or, when object storage is
// configured, behind FileKey/FileURL.
type Document struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VehicleID uint    `gorm:"not null;index" json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name     string       `gorm:"type:varchar(120);not null" json:"name"`
	Type     DocumentType `gorm:"type:varchar(20);not null;default:'other'" json:"type"`
	FileName string       `gorm:"type:varchar(255)" json:"file_name"`
	FileSize int64        `json:"file_size"`

	FileData []byte `gorm:"type:bytea" json:"-"`
	FileKey  string `gorm:"type:varchar(255)" json:"file_key,omitempty"`
	FileURL  string `json:"file_url,omitempty"`

	UploadDate time.Time `json:"upload_date"`
}

func (Document) TableName() string {
	return "vehicle_documents"
}
