package exceptions

var (
	ErrDuplicateBid   = New(KindConflict, "you have already bid on this gig")
	ErrOptimisticLock = New(KindConflict, "optimistic locking conflict")
)
