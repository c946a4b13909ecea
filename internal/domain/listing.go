package domain

import "time"

// ListingType distinguishes a service offer from a rentable item.
type ListingType string

const (
	TypeService ListingType = "service"
	TypeRental  ListingType = "rental"
)

// IsValid checks if the ListingType is one of the defined constants.
func (t ListingType) IsValid() bool {
	return t == TypeService || t == TypeRental
}

// RentalDurationUnit is the billing unit for rental listings.
type RentalDurationUnit string

const (
	RentalUnitHour  RentalDurationUnit = "hour"
	RentalUnitDay   RentalDurationUnit = "day"
	RentalUnitWeek  RentalDurationUnit = "week"
	RentalUnitMonth RentalDurationUnit = "month"
)

// IsValid checks if the RentalDurationUnit is one of the defined constants.
func (u RentalDurationUnit) IsValid() bool {
	switch u {
	case RentalUnitHour, RentalUnitDay, RentalUnitWeek, RentalUnitMonth:
		return true
	}
	return false
}

// VerificationThreshold is the number of distinct endorsers required to
// promote a listing to verified.
const VerificationThreshold = 3

// Review is a star rating with an optional comment, embedded in a listing.
// At most one review exists per (listing, user) pair.
type Review struct {
	UserID    string
	Rating    int32
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Listing is the central entity of the marketplace: a posted service offer
// or rentable item.
type Listing struct {
	ID            string
	Title         string
	Description   string
	Category      string
	PostedBy      string
	PosterName    string // denormalized on reads, never persisted
	ContactNumber string

	IsCommunityPosted bool
	IsVerified        bool

	// legacy freeform location
	Location string

	// explicit address fields used for filtering
	State   string
	City    string
	Area    string
	Pincode string

	Price float64
	Type  ListingType

	// service-only
	ServiceType  string
	Availability string

	// rental-only
	RentalDurationUnit RentalDurationUnit
	ItemCondition      string

	Reviews      []Review
	Endorsements []string

	PhotoURL string
	PhotoKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListingUpdate is the whitelist of mutable listing fields for partial
// updates. Nil pointers leave the stored value unchanged.
type ListingUpdate struct {
	Title              *string
	Description        *string
	Category           *string
	ContactNumber      *string
	IsCommunityPosted  *bool
	Location           *string
	State              *string
	City               *string
	Area               *string
	Pincode            *string
	Price              *float64
	Type               *ListingType
	ServiceType        *string
	Availability       *string
	RentalDurationUnit *RentalDurationUnit
	ItemCondition      *string
	PhotoURL           *string
	PhotoKey           *string
}

// IsEmpty reports whether the update changes nothing.
func (u ListingUpdate) IsEmpty() bool {
	return u == ListingUpdate{}
}

// ListingFilter holds the optional search criteria and pagination window
// for listing queries. Zero values impose no constraint.
type ListingFilter struct {
	Query    string
	Category string
	Type     string
	City     string
	Area     string
	Pincode  string
	Page     int64
	Limit    int64
}

// EndorsementState is the outcome of an endorsement toggle.
type EndorsementState struct {
	Action     string // "added" or "removed"
	Count      int
	IsVerified bool
	Promoted   bool // true when this toggle flipped the listing to verified
}
