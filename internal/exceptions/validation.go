package exceptions

var (
	ErrInvalidPrice        = New(KindValidationError, "price must be greater than 0")
	ErrInvalidBudget       = New(KindValidationError, "budget must be greater than 0")
	ErrMessageRequired     = New(KindValidationError, "message is required")
	ErrTitleRequired       = New(KindValidationError, "title is required")
	ErrDescriptionRequired = New(KindValidationError, "description is required")
	ErrIdentityRequired    = New(KindValidationError, "requester identity is required")
)
