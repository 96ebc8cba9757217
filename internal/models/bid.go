package model

import (
	"time"

	"gigflow.com/gigflow/internal/constants"
)

// Bid is unique per (GigID, WorkerID); the index backs the duplicate-bid check.
type Bid struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	GigID     string              `gorm:"size:36;not null;uniqueIndex:idx_bids_gig_worker" json:"gig_id"`
	WorkerID  string              `gorm:"size:36;not null;uniqueIndex:idx_bids_gig_worker;index" json:"worker_id"`
	Message   string              `gorm:"not null" json:"message"`
	Price     float64             `gorm:"not null" json:"price"`
	Status    constants.BidStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&Gig{}, &Bid{}}
}
