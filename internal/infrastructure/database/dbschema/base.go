package dbschema

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the shared persistence columns for schema entities.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
