package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/constants"
	"gigflow.com/gigflow/internal/exceptions"
	model "gigflow.com/gigflow/internal/models"
	repository "gigflow.com/gigflow/internal/repositories"
)

// BidService admits new bids. Input is validated before the store is
// touched; the gig checks and the insert run in one transaction.
type BidService struct {
	store     *repository.Store
	txTimeout time.Duration
	log       *zap.Logger
}

func NewBidService(store *repository.Store, txTimeout time.Duration, log *zap.Logger) *BidService {
	return &BidService{
		store:     store,
		txTimeout: txTimeout,
		log:       log.Named("bid_service"),
	}
}

func (s *BidService) SubmitBid(ctx context.Context, gigID, workerID, message string, price float64) (*model.Bid, error) {
	message = strings.TrimSpace(message)

	switch {
	case workerID == "":
		return nil, exceptions.ErrIdentityRequired
	case !positive(price):
		return nil, exceptions.ErrInvalidPrice
	case message == "":
		return nil, exceptions.ErrMessageRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var bid *model.Bid
	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		gig, err := tx.Gigs.FindByID(ctx, gigID)
		if err != nil {
			return err
		}

		if gig.Status != constants.GigStatusOpen {
			return exceptions.ErrGigNotOpen
		}

		if gig.OwnerID == workerID {
			return exceptions.ErrSelfBid
		}

		exists, err := tx.Bids.ExistsForWorker(ctx, gigID, workerID)
		if err != nil {
			return err
		}
		if exists {
			return exceptions.ErrDuplicateBid
		}

		bid = &model.Bid{
			ID:        uuid.NewString(),
			GigID:     gigID,
			WorkerID:  workerID,
			Message:   message,
			Price:     price,
			Status:    constants.BidStatusPending,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Bids.Create(ctx, bid)
	})
	if err != nil {
		s.log.Info("bid rejected",
			zap.String("gig_id", gigID),
			zap.String("worker_id", workerID),
			zap.String("kind", string(exceptions.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("bid submitted", zap.String("bid_id", bid.ID), zap.String("gig_id", gigID))
	return bid, nil
}

// ListBidsForGig returns the gig's bids, newest first. Only the gig owner may
// see them.
func (s *BidService) ListBidsForGig(ctx context.Context, gigID, requesterID string) ([]model.Bid, error) {
	gig, err := s.store.Gigs.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if gig.OwnerID != requesterID {
		return nil, exceptions.ErrNotGigOwner
	}

	return s.store.Bids.ListByGig(ctx, gigID)
}

func (s *BidService) ListWorkerBids(ctx context.Context, workerID string) ([]model.Bid, error) {
	if workerID == "" {
		return nil, exceptions.ErrIdentityRequired
	}
	return s.store.Bids.ListByWorker(ctx, workerID)
}
