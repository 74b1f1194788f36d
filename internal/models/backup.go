package models

import "time"

// Backup is the metadata row for an encrypted snapshot on disk.
type Backup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedBy string    `gorm:"size:36;index" json:"createdBy"`
	FileName  string    `gorm:"size:255;not null" json:"fileName"`
	FilePath  string    `gorm:"size:1024;not null" json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
