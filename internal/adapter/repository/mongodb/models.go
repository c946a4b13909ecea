package mongodb

import (
	"fmt"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the MongoDB representation of a domain.Listing.
type listingDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Title              string             `bson:"title"`
	Description        string             `bson:"description,omitempty"`
	Category           string             `bson:"category"`
	PostedBy           string             `bson:"posted_by"`
	ContactNumber      string             `bson:"contact_number"`
	IsCommunityPosted  bool               `bson:"is_community_posted"`
	IsVerified         bool               `bson:"is_verified"`
	Location           string             `bson:"location,omitempty"`
	State              string             `bson:"state,omitempty"`
	City               string             `bson:"city,omitempty"`
	Area               string             `bson:"area,omitempty"`
	Pincode            string             `bson:"pincode,omitempty"`
	Price              float64            `bson:"price,omitempty"`
	Type               string             `bson:"type"`
	ServiceType        string             `bson:"service_type,omitempty"`
	Availability       string             `bson:"availability,omitempty"`
	RentalDurationUnit string             `bson:"rental_duration_unit,omitempty"`
	ItemCondition      string             `bson:"item_condition,omitempty"`
	Reviews            []reviewDocument   `bson:"reviews"`
	Endorsements       []string           `bson:"endorsements"`
	PhotoURL           string             `bson:"photo_url,omitempty"`
	PhotoKey           string             `bson:"photo_key,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

// reviewDocument is a review embedded in a listing document.
type reviewDocument struct {
	UserID    string    `bson:"user_id"`
	Rating    int32     `bson:"rating"`
	Comment   string    `bson:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func fromDomainListing(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("fromDomainListing: invalid ID format %q: %w", l.ID, err)
		}
	}

	reviews := make([]reviewDocument, 0, len(l.Reviews))
	for _, rev := range l.Reviews {
		reviews = append(reviews, fromDomainReview(rev))
	}
	endorsements := l.Endorsements
	if endorsements == nil {
		endorsements = []string{}
	}

	return &listingDocument{
		ID:                 docID,
		Title:              l.Title,
		Description:        l.Description,
		Category:           l.Category,
		PostedBy:           l.PostedBy,
		ContactNumber:      l.ContactNumber,
		IsCommunityPosted:  l.IsCommunityPosted,
		IsVerified:         l.IsVerified,
		Location:           l.Location,
		State:              l.State,
		City:               l.City,
		Area:               l.Area,
		Pincode:            l.Pincode,
		Price:              l.Price,
		Type:               string(l.Type),
		ServiceType:        l.ServiceType,
		Availability:       l.Availability,
		RentalDurationUnit: string(l.RentalDurationUnit),
		ItemCondition:      l.ItemCondition,
		Reviews:            reviews,
		Endorsements:       endorsements,
		PhotoURL:           l.PhotoURL,
		PhotoKey:           l.PhotoKey,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}, nil
}

func (d *listingDocument) toDomainListing() *domain.Listing {
	if d == nil {
		return nil
	}
	reviews := make([]domain.Review, 0, len(d.Reviews))
	for _, rev := range d.Reviews {
		reviews = append(reviews, rev.toDomainReview())
	}
	endorsements := d.Endorsements
	if endorsements == nil {
		endorsements = []string{}
	}
	return &domain.Listing{
		ID:                 d.ID.Hex(),
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		PostedBy:           d.PostedBy,
		ContactNumber:      d.ContactNumber,
		IsCommunityPosted:  d.IsCommunityPosted,
		IsVerified:         d.IsVerified,
		Location:           d.Location,
		State:              d.State,
		City:               d.City,
		Area:               d.Area,
		Pincode:            d.Pincode,
		Price:              d.Price,
		Type:               domain.ListingType(d.Type),
		ServiceType:        d.ServiceType,
		Availability:       d.Availability,
		RentalDurationUnit: domain.RentalDurationUnit(d.RentalDurationUnit),
		ItemCondition:      d.ItemCondition,
		Reviews:            reviews,
		Endorsements:       endorsements,
		PhotoURL:           d.PhotoURL,
		PhotoKey:           d.PhotoKey,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func fromDomainReview(r domain.Review) reviewDocument {
	return reviewDocument{
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d reviewDocument) toDomainReview() domain.Review {
	return domain.Review{
		UserID:    d.UserID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// userDocument is the MongoDB representation of a domain.User.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     string             `bson:"phone"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *userDocument) toDomainUser() *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Phone:     d.Phone,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
