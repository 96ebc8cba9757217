package exceptions

var (
	ErrGigNotFound = New(KindNotFound, "gig not found")
	ErrBidNotFound = New(KindNotFound, "bid not found")
)
