package dto

type CreateGigRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	Budget      float64 `json:"budget" validate:"gt=0"`
}

type CreateBidRequest struct {
	GigID   string  `json:"gigId" validate:"required,uuid"`
	Message string  `json:"message" validate:"required,max=2000"`
	Price   float64 `json:"price" validate:"gt=0"`
}

type ListGigsQuery struct {
	Search string `query:"search" validate:"max=100"`
}
