package domain

import "context"

// PhotoStorage uploads listing photos to external blob storage and returns
// a dereferenceable URL plus the object key kept for future replacement.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (url, key string, err error)
}

// EventPublisher publishes domain events. Failures are non-critical and
// callers log and continue.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ListingCache is a read-through cache of listings by id.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// Mailer sends best-effort notification email.
type Mailer interface {
	SendListingCreatedEmail(toEmail, listingTitle string) error
}

// DescriptionGenerator is the optional text-generation collaborator. Its
// absence must not break any core operation.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, title, category, keywords string) (string, error)
	SummarizeReviews(ctx context.Context, comments []string) (string, error)
}
