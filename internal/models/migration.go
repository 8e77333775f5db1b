package models

import "time"

// MigrationRecord marks a numbered migration as completed on a network
type MigrationRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RunID       string    `gorm:"index;type:varchar(64)" json:"run_id"`
	Network     string    `gorm:"index;not null" json:"network"`
	Number      int       `gorm:"not null" json:"number"`
	Name        string    `gorm:"not null" json:"name"`
	CompletedAt time.Time `json:"completed_at"`
}
