package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	natsAdapter "github.com/Rakesh4440/fixify-plus/internal/adapter/messaging/nats"
	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 12
	maxPageLimit     = 50
)

// ListingUsecase implements the listing lifecycle: creation, retrieval,
// search, partial update and deletion, with ownership checks.
type ListingUsecase struct {
	repo    domain.ListingRepository
	users   domain.UserRepository
	cache   domain.ListingCache
	storage domain.PhotoStorage
	events  domain.EventPublisher
	mailer  domain.Mailer
	logger  *logger.Logger
}

// NewListingUsecase creates a new ListingUsecase.
func NewListingUsecase(
	repo domain.ListingRepository,
	users domain.UserRepository,
	cache domain.ListingCache,
	storage domain.PhotoStorage,
	events domain.EventPublisher,
	mailer domain.Mailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:    repo,
		users:   users,
		cache:   cache,
		storage: storage,
		events:  events,
		mailer:  mailer,
		logger:  log.Named("ListingUsecase"),
	}
}

// PhotoUpload carries an uploaded image destined for blob storage.
type PhotoUpload struct {
	FileName string
	Data     []byte
}

// CreateListingInput holds the input parameters for creating a listing.
type CreateListingInput struct {
	Title              string
	Description        string
	Category           string
	ContactNumber      string
	IsCommunityPosted  bool
	Location           string
	State              string
	City               string
	Area               string
	Pincode            string
	Price              float64
	Type               domain.ListingType
	ServiceType        string
	Availability       string
	RentalDurationUnit domain.RentalDurationUnit
	ItemCondition      string
	Photo              *PhotoUpload
}

// SearchResult is one page of matching listings plus pagination totals.
type SearchResult struct {
	Items     []*domain.Listing
	Total     int64
	Page      int64
	PageCount int64
	Limit     int64
}

// CreateListing validates and persists a new listing owned by the acting
// user. The poster identifier always comes from the actor, never from the
// input payload.
func (uc *ListingUsecase) CreateListing(ctx context.Context, actor *domain.Actor, input CreateListingInput) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.ContactNumber) == "" {
		missing = append(missing, "contactNumber")
	}
	if input.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: type must be %q or %q", domain.ErrInvalidInput, domain.TypeService, domain.TypeRental)
	}
	if input.RentalDurationUnit != "" && !input.RentalDurationUnit.IsValid() {
		return nil, fmt.Errorf("%w: invalid rentalDurationUnit %q", domain.ErrInvalidInput, input.RentalDurationUnit)
	}

	listing := &domain.Listing{
		Title:              strings.TrimSpace(input.Title),
		Description:        strings.TrimSpace(input.Description),
		Category:           strings.TrimSpace(input.Category),
		PostedBy:           actor.ID,
		ContactNumber:      domain.NormalizePhone(input.ContactNumber),
		IsCommunityPosted:  input.IsCommunityPosted,
		IsVerified:         false,
		Location:           strings.TrimSpace(input.Location),
		State:              strings.TrimSpace(input.State),
		City:               strings.TrimSpace(input.City),
		Area:               strings.TrimSpace(input.Area),
		Pincode:            strings.TrimSpace(input.Pincode),
		Price:              input.Price,
		Type:               input.Type,
		ServiceType:        strings.TrimSpace(input.ServiceType),
		Availability:       strings.TrimSpace(input.Availability),
		RentalDurationUnit: input.RentalDurationUnit,
		ItemCondition:      strings.TrimSpace(input.ItemCondition),
		Reviews:            []domain.Review{},
		Endorsements:       []string{},
	}

	if input.Photo != nil {
		url, key, err := uc.storage.Upload(ctx, input.Photo.FileName, input.Photo.Data)
		if err != nil {
			uc.logger.Error("Failed to upload listing photo", zap.Error(err))
			return nil, fmt.Errorf("%w: photo upload failed: %v", domain.ErrRepository, err)
		}
		listing.PhotoURL = url
		listing.PhotoKey = key
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.Error(err), zap.String("user_id", actor.ID))
		return nil, err
	}
	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("user_id", actor.ID))

	if err := uc.events.Publish(ctx, natsAdapter.SubjectListingCreated, map[string]interface{}{
		"listing_id": listing.ID,
		"posted_by":  listing.PostedBy,
		"category":   listing.Category,
		"type":       string(listing.Type),
	}); err != nil {
		uc.logger.Warn("Failed to publish listing.created event", zap.Error(err), zap.String("listing_id", listing.ID))
	}

	uc.notifyPoster(ctx, listing)

	return listing, nil
}

// notifyPoster sends the listing-created email. Failures are logged and
// never surfaced to the caller.
func (uc *ListingUsecase) notifyPoster(ctx context.Context, listing *domain.Listing) {
	poster, err := uc.users.FindByID(ctx, listing.PostedBy)
	if err != nil || poster.Email == "" {
		if err != nil {
			uc.logger.Warn("Could not look up poster for email notification", zap.Error(err), zap.String("user_id", listing.PostedBy))
		}
		return
	}
	if err := uc.mailer.SendListingCreatedEmail(poster.Email, listing.Title); err != nil {
		uc.logger.Warn("Failed to send listing-created email", zap.Error(err), zap.String("user_id", poster.ID))
	}
}

// GetListing retrieves a listing by id with the poster's name denormalized
// onto the result. Reads go through the cache.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.GetListing(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		uc.logger.Warn("Listing cache read failed", zap.Error(err), zap.String("listing_id", id))
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if poster, err := uc.users.FindByID(ctx, listing.PostedBy); err == nil {
		listing.PosterName = poster.Name
	}

	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Listing cache write failed", zap.Error(err), zap.String("listing_id", id))
	}
	return listing, nil
}

// SearchListings returns the filtered page of listings, newest first.
// Page is floored at 1 and limit defaults to 12, clamped to [1, 50].
func (uc *ListingUsecase) SearchListings(ctx context.Context, filter domain.ListingFilter) (*SearchResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit < 1 {
		filter.Limit = 1
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := uc.repo.FindByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to search listings", zap.Error(err))
		return nil, err
	}

	return &SearchResult{
		Items:     items,
		Total:     total,
		Page:      filter.Page,
		PageCount: (total + filter.Limit - 1) / filter.Limit,
		Limit:     filter.Limit,
	}, nil
}

// UpdateListing applies a partial update after the owner-or-admin check.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, actor *domain.Actor, id string, upd domain.ListingUpdate, photo *PhotoUpload) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if upd.IsEmpty() && photo == nil {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.PostedBy != actor.ID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden listing update",
			zap.String("listing_id", id), zap.String("owner_id", listing.PostedBy), zap.String("user_id", actor.ID))
		return nil, domain.ErrForbidden
	}

	if upd.ContactNumber != nil {
		normalized := domain.NormalizePhone(*upd.ContactNumber)
		upd.ContactNumber = &normalized
	}
	if upd.Type != nil && !upd.Type.IsValid() {
		return nil, fmt.Errorf("%w: type must be %q or %q", domain.ErrInvalidInput, domain.TypeService, domain.TypeRental)
	}
	if upd.RentalDurationUnit != nil && *upd.RentalDurationUnit != "" && !upd.RentalDurationUnit.IsValid() {
		return nil, fmt.Errorf("%w: invalid rentalDurationUnit %q", domain.ErrInvalidInput, *upd.RentalDurationUnit)
	}

	if photo != nil {
		// the replaced object is left behind in storage; cleanup is an
		// external housekeeping concern
		url, key, err := uc.storage.Upload(ctx, photo.FileName, photo.Data)
		if err != nil {
			uc.logger.Error("Failed to upload replacement photo", zap.Error(err), zap.String("listing_id", id))
			return nil, fmt.Errorf("%w: photo upload failed: %v", domain.ErrRepository, err)
		}
		upd.PhotoURL = &url
		upd.PhotoKey = &key
	}

	updated, err := uc.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)
	if err := uc.events.Publish(ctx, natsAdapter.SubjectListingUpdated, map[string]interface{}{
		"listing_id": id,
		"updated_by": actor.ID,
	}); err != nil {
		uc.logger.Warn("Failed to publish listing.updated event", zap.Error(err), zap.String("listing_id", id))
	}
	return updated, nil
}

// DeleteListing permanently removes a listing after the owner-or-admin
// check. Embedded reviews and endorsements go with it.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, actor *domain.Actor, id string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.PostedBy != actor.ID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden listing delete",
			zap.String("listing_id", id), zap.String("owner_id", listing.PostedBy), zap.String("user_id", actor.ID))
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	if err := uc.events.Publish(ctx, natsAdapter.SubjectListingDeleted, map[string]interface{}{
		"listing_id": id,
		"deleted_by": actor.ID,
	}); err != nil {
		uc.logger.Warn("Failed to publish listing.deleted event", zap.Error(err), zap.String("listing_id", id))
	}
	return nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeleteListing(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", id))
	}
}
