package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/constants"
	"gigflow.com/gigflow/internal/exceptions"
	model "gigflow.com/gigflow/internal/models"
	repository "gigflow.com/gigflow/internal/repositories"
)

type GigService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewGigService(store *repository.Store, log *zap.Logger) *GigService {
	return &GigService{
		store: store,
		log:   log.Named("gig_service"),
	}
}

func (s *GigService) CreateGig(ctx context.Context, ownerID, title, description string, budget float64) (*model.Gig, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	switch {
	case ownerID == "":
		return nil, exceptions.ErrIdentityRequired
	case title == "":
		return nil, exceptions.ErrTitleRequired
	case description == "":
		return nil, exceptions.ErrDescriptionRequired
	case !positive(budget):
		return nil, exceptions.ErrInvalidBudget
	}

	gig := &model.Gig{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Budget:      budget,
		OwnerID:     ownerID,
		Status:      constants.GigStatusOpen,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Gigs.Create(ctx, gig); err != nil {
		s.log.Error("failed to create gig", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	s.log.Info("gig created", zap.String("gig_id", gig.ID), zap.String("owner_id", ownerID))
	return gig, nil
}

func (s *GigService) GetGig(ctx context.Context, id string) (*model.Gig, error) {
	return s.store.Gigs.FindByID(ctx, id)
}

func (s *GigService) ListOpenGigs(ctx context.Context, search string) ([]model.Gig, error) {
	return s.store.Gigs.ListOpen(ctx, search)
}

func (s *GigService) ListOwnedGigs(ctx context.Context, ownerID string) ([]model.Gig, error) {
	if ownerID == "" {
		return nil, exceptions.ErrIdentityRequired
	}
	return s.store.Gigs.ListByOwner(ctx, ownerID)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
