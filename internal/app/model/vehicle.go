package model

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle is a registered vehicle and its issued Carte Rose data. The chassis
// number is the external unique key; the plate sequence is assigned exactly
// once at creation and never recomputed.
type Vehicle struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ChassisNumber string `gorm:"type:varchar(64);uniqueIndex;not null" json:"chassis_number"`
	RegionCode    string `gorm:"type:varchar(2);index;not null" json:"region_code"`

	// Driver information
	DriverName    string `gorm:"type:varchar(120)" json:"driver_name"`
	DriverAddress string `gorm:"type:text" json:"driver_address"`
	TaxNumber     string `gorm:"type:varchar(40)" json:"tax_number"` // N° impot

	// Vehicle information
	Brand             string `gorm:"type:varchar(60)" json:"brand"`        // Marque
	VehicleType       string `gorm:"type:varchar(60)" json:"vehicle_type"` // Genre
	ManufacturingYear int    `json:"manufacturing_year"`
	Color             string `gorm:"type:varchar(40)" json:"color"`
	FiscalPower       int    `json:"fiscal_power"` // Puissance fiscale

	// Registration information
	ReferenceNumber   string `gorm:"type:varchar(40)" json:"reference_number"`
	FirstRegistration int    `json:"first_registration"`
	Usage             string `gorm:"type:varchar(60)" json:"usage"`

	// License plate. PlateSequence has the shape NNNNLLRR; the region code is
	// its last two characters, so a global unique index also enforces
	// per-region uniqueness. UniquePlateNumber is the 7-digit rendering of
	// the record id, derived right after insert.
	PlateSequence     string `gorm:"type:varchar(8);uniqueIndex" json:"plate_sequence"`
	UniquePlateNumber string `gorm:"type:varchar(7)" json:"unique_plate_number"`

	// QR artifacts: derived cache, regenerated at will. QRCodeImage holds the
	// base64-encoded PNG.
	QRCodeData  string `gorm:"type:text" json:"qr_code_data,omitempty"`
	QRCodeImage string `gorm:"type:text" json:"qr_code_image,omitempty"`

	// Printing information
	PrintLocation string     `gorm:"type:varchar(120)" json:"print_location"`
	PrintDate     *time.Time `json:"print_date,omitempty"`
	IsReprinted   bool       `gorm:"default:false" json:"is_reprinted"`

	Documents    []Document     `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	PrintHistory []PrintHistory `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"print_history,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// RegionName returns the display name of the vehicle's region.
func (v *Vehicle) RegionName() string {
	return RegionNames[v.RegionCode]
}

// QRPayload is the structured record handed to the QR image encoder. Field
// names are part of the printed-card compatibility surface and must not
// change.
type QRPayload struct {
	Chassis     string `json:"chassis"`
	Plate       string `json:"plate"`
	UniqueID    string `json:"unique_id"`
	Driver      string `json:"driver"`
	Brand       string `json:"brand"`
	Year        int    `json:"year"`
	Region      string `json:"region"`
	GeneratedAt string `json:"generated_at"`
}
