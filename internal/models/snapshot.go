package models

import "time"

// Snapshot stores one engine's serialized state under its slot name.
type Snapshot struct {
	Name      string `gorm:"primaryKey;size:64"`
	Data      string `gorm:"type:longtext"`
	UpdatedAt time.Time
}
