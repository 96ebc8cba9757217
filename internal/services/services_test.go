package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gigflow.com/gigflow/internal/notifications"
	repository "gigflow.com/gigflow/internal/repositories"
	"gigflow.com/gigflow/internal/testutil"
)

const testTxTimeout = 2 * time.Second

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.HireEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event notifications.HireEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []notifications.HireEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.HireEvent(nil), p.events...)
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(context.Context, notifications.HireEvent) {
	panic("publisher exploded")
}

type fixture struct {
	db        *gorm.DB
	store     *repository.Store
	publisher *recordingPublisher
	services  *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	publisher := &recordingPublisher{}

	return &fixture{
		db:        db,
		store:     store,
		publisher: publisher,
		services:  NewServices(store, publisher, testTxTimeout, zap.NewNop()),
	}
}

func newUser() string {
	return uuid.NewString()
}

func (f *fixture) createGig(t *testing.T, ownerID string) string {
	t.Helper()

	gig, err := f.services.Gigs.CreateGig(context.Background(), ownerID, "Logo design", "A new logo", 200)
	require.NoError(t, err)
	return gig.ID
}

func (f *fixture) submitBid(t *testing.T, gigID, workerID string) string {
	t.Helper()

	bid, err := f.services.Bids.SubmitBid(context.Background(), gigID, workerID, "I can do this", 150)
	require.NoError(t, err)
	return bid.ID
}
