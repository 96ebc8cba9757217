package exceptions

var (
	ErrGigNotOpen         = New(KindInvalidState, "gig is no longer open")
	ErrGigAlreadyAssigned = New(KindInvalidState, "gig is already assigned")
	ErrBidNotPending      = New(KindInvalidState, "bid is not pending")
)
