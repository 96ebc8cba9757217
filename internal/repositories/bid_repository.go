package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gigflow.com/gigflow/internal/constants"
	"gigflow.com/gigflow/internal/exceptions"
	model "gigflow.com/gigflow/internal/models"
)

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create inserts the bid. A second bid for the same (gig, worker) pair hits
// the unique index and yields ErrDuplicateBid.
func (r *BidRepository) Create(ctx context.Context, bid *model.Bid) error {
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		if isUniqueViolation(err) {
			return exceptions.ErrDuplicateBid.Wrap(err)
		}
		return err
	}
	return nil
}

func (r *BidRepository) FindByID(ctx context.Context, id string) (*model.Bid, error) {
	var bid model.Bid
	if err := r.db.WithContext(ctx).First(&bid, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (r *BidRepository) ExistsForWorker(ctx context.Context, gigID, workerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("gig_id = ? AND worker_id = ?", gigID, workerID).
		Count(&count).Error
	return count > 0, err
}

func (r *BidRepository) ListByGig(ctx context.Context, gigID string) ([]model.Bid, error) {
	bids := make([]model.Bid, 0)
	err := r.db.WithContext(ctx).
		Where("gig_id = ?", gigID).
		Order("created_at desc").
		Find(&bids).Error
	return bids, err
}

func (r *BidRepository) ListByWorker(ctx context.Context, workerID string) ([]model.Bid, error) {
	bids := make([]model.Bid, 0)
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at desc").
		Find(&bids).Error
	return bids, err
}

// MarkHired moves a pending bid of the given gig to hired, failing with
// ErrOptimisticLock if the bid left pending since it was read.
func (r *BidRepository) MarkHired(ctx context.Context, bid *model.Bid) error {
	res := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("id = ? AND gig_id = ? AND status = ?", bid.ID, bid.GigID, constants.BidStatusPending).
		Update("status", constants.BidStatusHired)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return exceptions.ErrOptimisticLock
	}

	bid.Status = constants.BidStatusHired
	return nil
}

// RejectPendingExcept rejects every other pending bid of the gig and returns
// how many were rejected.
func (r *BidRepository) RejectPendingExcept(ctx context.Context, gigID, hiredBidID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Bid{}).
		Where("gig_id = ? AND id <> ? AND status = ?", gigID, hiredBidID, constants.BidStatusPending).
		Update("status", constants.BidStatusRejected)
	return res.RowsAffected, res.Error
}
