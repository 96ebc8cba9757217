package constants

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

// Terminal reports whether no further transition may leave the status.
func (s BidStatus) Terminal() bool {
	return s == BidStatusHired || s == BidStatusRejected
}
