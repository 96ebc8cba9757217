package notifications

import (
	"context"
	"fmt"
)

const EventBidHired = "bidHired"

// HireEvent is sent to the hired worker after a hire commits. Field names
// on the wire match what existing clients listen for.
type HireEvent struct {
	BidID    string `json:"bidId"`
	WorkerID string `json:"freelancerId"`
	GigID    string `json:"gigId"`
	GigTitle string `json:"gigTitle"`
	Message  string `json:"message"`
}

func NewHireEvent(workerID, gigID, gigTitle, bidID string) HireEvent {
	return HireEvent{
		BidID:    bidID,
		WorkerID: workerID,
		GigID:    gigID,
		GigTitle: gigTitle,
		Message:  fmt.Sprintf("You have been hired for %s!", gigTitle),
	}
}

// Publisher hands an event off for best-effort delivery. Implementations
// must not block the caller and have no failure mode visible to it.
type Publisher interface {
	Publish(ctx context.Context, event HireEvent)
}

// Sink performs the actual delivery of one event.
type Sink interface {
	Deliver(ctx context.Context, event HireEvent) error
}
