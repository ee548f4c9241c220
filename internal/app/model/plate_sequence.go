package model

import "time"

// PlateSequence stores the last issued sequence number for one region. A row
// is created lazily on the first allocation for its region, then incremented
// in place forever; rows are never deleted and values never reused.
type PlateSequence struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RegionCode      string `gorm:"type:varchar(2);uniqueIndex;not null" json:"region_code"`
	CurrentSequence int64  `gorm:"not null;default:0" json:"current_sequence"`
}

func (PlateSequence) TableName() string {
	return "plate_sequences"
}
