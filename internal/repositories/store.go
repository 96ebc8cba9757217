package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the gig and bid repositories over one connection or one
// open transaction.
type Store struct {
	db   *gorm.DB
	Gigs *GigRepository
	Bids *BidRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:   db,
		Gigs: NewGigRepository(db),
		Bids: NewBidRepository(db),
	}
}

// WithinTransaction runs fn against a transactional Store. The transaction
// commits when fn returns nil and rolls back on an error or a panic; every
// write made through tx lands together or not at all.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return classify(ctx, err)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
