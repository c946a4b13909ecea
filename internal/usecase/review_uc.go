package usecase

import (
	"context"
	"fmt"

	natsAdapter "github.com/Rakesh4440/fixify-plus/internal/adapter/messaging/nats"
	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"go.uber.org/zap"
)

// ReviewUsecase implements the review upsert and the endorsement toggle
// with its verification threshold.
type ReviewUsecase struct {
	repo   domain.ListingRepository
	cache  domain.ListingCache
	events domain.EventPublisher
	logger *logger.Logger
}

// NewReviewUsecase creates a new ReviewUsecase.
func NewReviewUsecase(repo domain.ListingRepository, cache domain.ListingCache, events domain.EventPublisher, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: log.Named("ReviewUsecase"),
	}
}

// UpsertReview replaces the acting user's existing review on the listing
// or appends a new one, and returns the full review sequence. Ratings are
// validated before anything touches the datastore.
func (uc *ReviewUsecase) UpsertReview(ctx context.Context, actor *domain.Actor, listingID string, rating int32, comment string) ([]domain.Review, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}

	reviews, err := uc.repo.UpsertReview(ctx, listingID, domain.Review{
		UserID:  actor.ID,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		uc.logger.Error("Failed to upsert review", zap.Error(err), zap.String("listing_id", listingID), zap.String("user_id", actor.ID))
		return nil, err
	}

	uc.invalidate(ctx, listingID)
	if err := uc.events.Publish(ctx, natsAdapter.SubjectReviewUpserted, map[string]interface{}{
		"listing_id": listingID,
		"user_id":    actor.ID,
		"rating":     rating,
	}); err != nil {
		uc.logger.Warn("Failed to publish review.upserted event", zap.Error(err), zap.String("listing_id", listingID))
	}
	return reviews, nil
}

// ToggleEndorsement adds or removes the acting user's endorsement. When
// the distinct-endorser count first reaches the threshold the listing is
// promoted to verified; removals never demote it.
func (uc *ReviewUsecase) ToggleEndorsement(ctx context.Context, actor *domain.Actor, listingID string) (*domain.EndorsementState, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	state, err := uc.repo.ToggleEndorsement(ctx, listingID, actor.ID, domain.VerificationThreshold)
	if err != nil {
		uc.logger.Error("Failed to toggle endorsement", zap.Error(err), zap.String("listing_id", listingID), zap.String("user_id", actor.ID))
		return nil, err
	}

	uc.invalidate(ctx, listingID)
	if state.Promoted {
		uc.logger.Info("Listing promoted to verified by endorsements",
			zap.String("listing_id", listingID), zap.Int("endorsement_count", state.Count))
		if err := uc.events.Publish(ctx, natsAdapter.SubjectListingVerified, map[string]interface{}{
			"listing_id": listingID,
			"source":     "endorsements",
		}); err != nil {
			uc.logger.Warn("Failed to publish listing.verified event", zap.Error(err), zap.String("listing_id", listingID))
		}
	}
	return state, nil
}

// AdminVerify marks a listing verified. Restricted to the admin and
// community roles. The returned flag reports whether the listing actually
// transitioned; re-verifying an already-verified listing is a no-op that
// emits no event.
func (uc *ReviewUsecase) AdminVerify(ctx context.Context, actor *domain.Actor, listingID string) (bool, error) {
	if actor == nil {
		return false, domain.ErrUnauthorized
	}
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleCommunity {
		uc.logger.Warn("Forbidden verify attempt", zap.String("listing_id", listingID), zap.String("user_id", actor.ID), zap.String("role", string(actor.Role)))
		return false, domain.ErrForbidden
	}

	changed, err := uc.repo.SetVerified(ctx, listingID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	uc.invalidate(ctx, listingID)
	if err := uc.events.Publish(ctx, natsAdapter.SubjectListingVerified, map[string]interface{}{
		"listing_id":  listingID,
		"source":      "moderation",
		"verified_by": actor.ID,
	}); err != nil {
		uc.logger.Warn("Failed to publish listing.verified event", zap.Error(err), zap.String("listing_id", listingID))
	}
	return true, nil
}

func (uc *ReviewUsecase) invalidate(ctx context.Context, listingID string) {
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", listingID))
	}
}
