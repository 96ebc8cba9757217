package services

import (
	"time"

	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/notifications"
	repository "gigflow.com/gigflow/internal/repositories"
)

type Services struct {
	Gigs   *GigService
	Bids   *BidService
	Hiring *HiringService
}

func NewServices(
	store *repository.Store,
	publisher notifications.Publisher,
	txTimeout time.Duration,
	log *zap.Logger,
) *Services {
	return &Services{
		Gigs:   NewGigService(store, log),
		Bids:   NewBidService(store, txTimeout, log),
		Hiring: NewHiringService(store, publisher, txTimeout, log),
	}
}
