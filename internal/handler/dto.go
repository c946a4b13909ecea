package handler

import (
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"
)

type reviewResponse struct {
	User      string    `json:"user"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type posterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listingResponse struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	Category           string           `json:"category"`
	PostedBy           string           `json:"postedBy"`
	Poster             *posterRef       `json:"poster,omitempty"`
	ContactNumber      string           `json:"contactNumber"`
	IsCommunityPosted  bool             `json:"isCommunityPosted"`
	IsVerified         bool             `json:"isVerified"`
	Location           string           `json:"location,omitempty"`
	State              string           `json:"state,omitempty"`
	City               string           `json:"city,omitempty"`
	Area               string           `json:"area,omitempty"`
	Pincode            string           `json:"pincode,omitempty"`
	Price              float64          `json:"price"`
	Type               string           `json:"type"`
	ServiceType        string           `json:"serviceType,omitempty"`
	Availability       string           `json:"availability,omitempty"`
	RentalDurationUnit string           `json:"rentalDurationUnit,omitempty"`
	ItemCondition      string           `json:"itemCondition,omitempty"`
	Reviews            []reviewResponse `json:"reviews"`
	Endorsements       []string         `json:"endorsements"`
	EndorsementCount   int              `json:"endorsementCount"`
	PhotoURL           string           `json:"photoUrl,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	reviews := make([]reviewResponse, 0, len(l.Reviews))
	for _, rv := range l.Reviews {
		reviews = append(reviews, reviewResponse{
			User:      rv.UserID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
			UpdatedAt: rv.UpdatedAt,
		})
	}
	endorsements := l.Endorsements
	if endorsements == nil {
		endorsements = []string{}
	}

	resp := listingResponse{
		ID:                 l.ID,
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
		EndorsementCount:   len(endorsements),
		PhotoURL:           l.PhotoURL,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.PosterName != "" {
		resp.Poster = &posterRef{ID: l.PostedBy, Name: l.PosterName}
	}
	return resp
}

type searchResponse struct {
	Items []listingResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int64             `json:"page"`
	Pages int64             `json:"pages"`
	Limit int64             `json:"limit"`
}

func toSearchResponse(res *usecase.SearchResult) searchResponse {
	items := make([]listingResponse, 0, len(res.Items))
	for _, l := range res.Items {
		items = append(items, toListingResponse(l))
	}
	return searchResponse{
		Items: items,
		Total: res.Total,
		Page:  res.Page,
		Pages: res.PageCount,
		Limit: res.Limit,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
