package models

import "time"

// Table is a physical seating unit. Number is the identifier staff and guests
// use, ID is only the storage key.
type Table struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Number    int       `gorm:"not null;uniqueIndex" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Location  string    `gorm:"type:varchar(100);not null" json:"location"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
