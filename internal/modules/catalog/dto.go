package catalog

// Dates accept YYYY-MM-DD or RFC 3339.

type RetreatDateInput struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Capacity  *int   `json:"capacity"`
}

type CreateRetreatRequest struct {
	Name        string             `json:"name" binding:"required"`
	Location    string             `json:"location" binding:"required"`
	Description string             `json:"description"`
	BasePrice   float64            `json:"basePrice" binding:"gte=0"`
	MaxCapacity *int               `json:"maxCapacity"`
	Images      []string           `json:"images"`
	Amenities   []string           `json:"amenities"`
	Dates       []RetreatDateInput `json:"retreatDates"`
}

type CreateRoomTypeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	PackagePrice float64  `json:"packagePrice" binding:"required,gt=0"`
	MaxGuests    int      `json:"maxGuests" binding:"required,gt=0"`
	Amenities    []string `json:"amenities"`
	PackageID    *int64   `json:"packageId"`
}

type CreatePackageRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"pricePerNight" binding:"required,gt=0"`
	DurationDays  int      `json:"durationDays"`
	MaxGuests     int      `json:"maxGuests" binding:"required,gt=0"`
	Amenities     []string `json:"amenities"`
	Inclusions    []string `json:"inclusions"`
	Features      []string `json:"features"`
	DisplayOrder  int      `json:"displayOrder"`
	IsActive      *bool    `json:"isActive"`
}

type CreateInfluencerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Bio      string `json:"bio"`
	ImageURL string `json:"imageUrl"`
}

type CreatePromoCodeRequest struct {
	Code               string `json:"code" binding:"required"`
	InfluencerID       int64  `json:"influencerId" binding:"required"`
	DiscountPercentage *int   `json:"discountPercentage"`
	IsActive           *bool  `json:"isActive"`
}

type ValidatePromoRequest struct {
	Code string `json:"code" binding:"required"`
}
