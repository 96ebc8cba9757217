package model

import (
	"time"

	"gigflow.com/gigflow/internal/constants"
)

type Gig struct {
	ID          string              `gorm:"primaryKey;size:36" json:"id"`
	Title       string              `gorm:"not null" json:"title"`
	Description string              `gorm:"not null" json:"description"`
	Budget      float64             `gorm:"not null" json:"budget"`
	OwnerID     string              `gorm:"size:36;not null;index" json:"owner_id"`
	Status      constants.GigStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Version     uint                `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
}
