package exceptions

var (
	ErrNotGigOwner = New(KindForbidden, "only the gig owner can perform this action")
	ErrSelfBid     = New(KindForbidden, "cannot bid on your own gig")
)
