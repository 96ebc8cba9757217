package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/constants"
	"gigflow.com/gigflow/internal/exceptions"
	model "gigflow.com/gigflow/internal/models"
	"gigflow.com/gigflow/internal/notifications"
	repository "gigflow.com/gigflow/internal/repositories"
)

type HireResult struct {
	Gig      *model.Gig
	Bid      *model.Bid
	Rejected int64
}

// HiringService accepts one bid on a gig. The gig moves to assigned, the bid
// to hired and every other pending bid to rejected in a single transaction;
// the hired worker is notified only after that transaction commits.
type HiringService struct {
	store     *repository.Store
	publisher notifications.Publisher
	txTimeout time.Duration
	log       *zap.Logger
}

func NewHiringService(
	store *repository.Store,
	publisher notifications.Publisher,
	txTimeout time.Duration,
	log *zap.Logger,
) *HiringService {
	return &HiringService{
		store:     store,
		publisher: publisher,
		txTimeout: txTimeout,
		log:       log.Named("hiring_service"),
	}
}

func (s *HiringService) Hire(ctx context.Context, gigID, bidID, requesterID string) (*HireResult, error) {
	if requesterID == "" {
		return nil, exceptions.ErrIdentityRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var result HireResult
	err := s.store.WithinTransaction(ctx, func(tx *repository.Store) error {
		gig, err := tx.Gigs.FindByIDForUpdate(ctx, gigID)
		if err != nil {
			return err
		}

		bid, err := tx.Bids.FindByID(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.GigID != gig.ID {
			return exceptions.ErrBidNotFound
		}

		if gig.OwnerID != requesterID {
			return exceptions.ErrNotGigOwner
		}
		if gig.Status != constants.GigStatusOpen {
			return exceptions.ErrGigAlreadyAssigned
		}
		if bid.Status.Terminal() {
			return exceptions.ErrBidNotPending
		}

		if err := tx.Gigs.Assign(ctx, gig); err != nil {
			return err
		}
		if err := tx.Bids.MarkHired(ctx, bid); err != nil {
			return err
		}

		rejected, err := tx.Bids.RejectPendingExcept(ctx, gig.ID, bid.ID)
		if err != nil {
			return err
		}

		result = HireResult{Gig: gig, Bid: bid, Rejected: rejected}
		return nil
	})
	if err != nil {
		s.log.Info("hire failed",
			zap.String("gig_id", gigID),
			zap.String("bid_id", bidID),
			zap.String("requester_id", requesterID),
			zap.String("kind", string(exceptions.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("bid hired",
		zap.String("gig_id", gigID),
		zap.String("bid_id", bidID),
		zap.String("worker_id", result.Bid.WorkerID),
		zap.Int64("rejected", result.Rejected),
	)

	s.notifyHired(context.WithoutCancel(ctx), &result)
	return &result, nil
}

// HireBid hires a bid identified only by its id.
func (s *HiringService) HireBid(ctx context.Context, bidID, requesterID string) (*HireResult, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var gigID string
	err := s.store.WithinTransaction(lookupCtx, func(tx *repository.Store) error {
		bid, err := tx.Bids.FindByID(lookupCtx, bidID)
		if err != nil {
			return err
		}
		gigID = bid.GigID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Hire(ctx, gigID, bidID, requesterID)
}

func (s *HiringService) notifyHired(ctx context.Context, result *HireResult) {
	if s.publisher == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("hire notification panicked", zap.Any("panic", r), zap.String("bid_id", result.Bid.ID))
		}
	}()

	s.publisher.Publish(ctx, notifications.NewHireEvent(
		result.Bid.WorkerID,
		result.Gig.ID,
		result.Gig.Title,
		result.Bid.ID,
	))
}
