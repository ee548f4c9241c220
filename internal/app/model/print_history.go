package model

import (
	"time"

	"gorm.io/gorm"
)

type PrintType string   // what was printed
type PrintStatus string // outcome of the print job

const (
	PrintTypeLicensePlate PrintType = "license_plate"
	PrintTypeCarteRose    PrintType = "carte_rose"
	PrintTypeReprint      PrintType = "reprint"

	PrintStatusSuccess PrintStatus = "success"
	PrintStatusFailed  PrintStatus = "failed"
	PrintStatusPending PrintStatus = "pending"
)

// IsValidPrintType reports whether t is one of the known print types.
func IsValidPrintType(t PrintType) bool {
	switch t {
	case PrintTypeLicensePlate, PrintTypeCarteRose, PrintTypeReprint:
		return true
	}
	return false
}

// IsValidPrintStatus reports whether s is one of the known print statuses.
func IsValidPrintStatus(s PrintStatus) bool {
	switch s {
	case PrintStatusSuccess, PrintStatusFailed, PrintStatusPending:
		return true
	}
	return false
}

// PrintHistory is one print or reprint event for a vehicle. Append-only:
// only the status field may change after creation. Cascade-deleted with the
// vehicle.
type PrintHistory struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VehicleID uint    `gorm:"not null;index" json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	PrintType   PrintType   `gorm:"type:varchar(20);not null" json:"print_type"`
	PrintDate   time.Time   `json:"print_date"`
	PrinterName string      `gorm:"type:varchar(120)" json:"printer_name"`
	Status      PrintStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Notes       string      `gorm:"type:text" json:"notes"`
}

func (PrintHistory) TableName() string {
	return "vehicle_print_history"
}
