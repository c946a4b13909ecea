package domain

import "context"

// ListingRepository defines the persistence port for listings. Methods
// operate on the clean domain entities without knowledge of storage tags
// or structures.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// Update applies the non-nil fields of upd to the stored document and
	// returns the updated listing.
	Update(ctx context.Context, id string, upd ListingUpdate) (*Listing, error)
	Delete(ctx context.Context, id string) error
	// FindByFilter returns the matching page of listings, newest first,
	// and the total match count regardless of the pagination window.
	FindByFilter(ctx context.Context, filter ListingFilter) ([]*Listing, int64, error)

	// UpsertReview replaces the caller's existing review in place or
	// appends a new one, and returns the full review sequence.
	UpsertReview(ctx context.Context, listingID string, review Review) ([]Review, error)
	// ToggleEndorsement atomically adds or removes userID from the
	// endorser set and promotes the listing to verified once the
	// threshold of distinct endorsers is reached. The promotion is
	// one-way.
	ToggleEndorsement(ctx context.Context, listingID, userID string, threshold int) (*EndorsementState, error)
	// SetVerified marks the listing verified and reports whether the flag
	// actually changed, so callers can tell a promotion apart from a
	// re-verify of an already-verified listing.
	SetVerified(ctx context.Context, listingID string) (changed bool, err error)
}

// UserRepository defines the persistence port for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
