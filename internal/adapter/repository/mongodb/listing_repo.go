package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures the query indexes.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "posted_by", Value: 1}}},
		{Keys: bson.D{{Key: "pincode", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for listings collection (may already exist)", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Create inserts a new listing and fills in the generated id and timestamps.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := fromDomainListing(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}

	listing.ID = doc.ID.Hex()
	listing.CreatedAt = doc.CreatedAt
	listing.UpdatedAt = doc.UpdatedAt
	r.logger.Info("Listing created in DB", zap.String("listing_id", listing.ID))
	return nil
}

// FindByID retrieves a listing by its hex id.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to get listing by ID from DB", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomainListing(), nil
}

// Update applies the non-nil fields of upd and returns the updated listing.
func (r *ListingRepository) Update(ctx context.Context, id string, upd domain.ListingUpdate) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.ContactNumber != nil {
		set["contact_number"] = *upd.ContactNumber
	}
	if upd.IsCommunityPosted != nil {
		set["is_community_posted"] = *upd.IsCommunityPosted
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.State != nil {
		set["state"] = *upd.State
	}
	if upd.City != nil {
		set["city"] = *upd.City
	}
	if upd.Area != nil {
		set["area"] = *upd.Area
	}
	if upd.Pincode != nil {
		set["pincode"] = *upd.Pincode
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Type != nil {
		set["type"] = string(*upd.Type)
	}
	if upd.ServiceType != nil {
		set["service_type"] = *upd.ServiceType
	}
	if upd.Availability != nil {
		set["availability"] = *upd.Availability
	}
	if upd.RentalDurationUnit != nil {
		set["rental_duration_unit"] = string(*upd.RentalDurationUnit)
	}
	if upd.ItemCondition != nil {
		set["item_condition"] = *upd.ItemCondition
	}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}
	if upd.PhotoKey != nil {
		set["photo_key"] = *upd.PhotoKey
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to update listing in DB", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	r.logger.Info("Listing updated in DB", zap.String("listing_id", id))
	return doc.toDomainListing(), nil
}

// Delete permanently removes a listing and its embedded reviews and
// endorsements.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.Error(err), zap.String("listing_id", id))
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	r.logger.Info("Listing deleted from DB", zap.String("listing_id", id))
	return nil
}

// FindByFilter returns the requested page of matching listings, newest
// first, plus the total match count.
func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, int64, error) {
	query := buildListingFilter(filter)

	findOptions := options.Find().
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to search listings in DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("%w: db cursor decode failed: %v", domain.ErrRepository, err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: db count failed: %v", domain.ErrRepository, err)
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomainListing())
	}
	return listings, total, nil
}

// UpsertReview overwrites the user's existing review in place (keeping its
// position in the sequence) or appends a new one, then returns the full
// review sequence.
func (r *ListingRepository) UpsertReview(ctx context.Context, listingID string, review domain.Review) ([]domain.Review, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	now := time.Now().UTC()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "reviews.user_id": review.UserID},
		bson.M{"$set": bson.M{
			"reviews.$.rating":     review.Rating,
			"reviews.$.comment":    review.Comment,
			"reviews.$.updated_at": now,
			"updated_at":           now,
		}})
	if err != nil {
		r.logger.Error("Failed to update review in DB", zap.Error(err), zap.String("listing_id", listingID))
		return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}

	if res.MatchedCount == 0 {
		doc := reviewDocument{
			UserID:    review.UserID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": objID},
			bson.M{"$push": bson.M{"reviews": doc}, "$set": bson.M{"updated_at": now}})
		if err != nil {
			r.logger.Error("Failed to append review in DB", zap.Error(err), zap.String("listing_id", listingID))
			return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrListingNotFound
		}
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomainListing().Reviews, nil
}

// ToggleEndorsement flips the caller's membership in the endorser set with
// conditional single-document updates, so concurrent toggles never lose
// writes, and promotes the listing to verified once the threshold is
// reached. The verified flag is never cleared here.
func (r *ListingRepository) ToggleEndorsement(ctx context.Context, listingID, userID string, threshold int) (*domain.EndorsementState, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	state := &domain.EndorsementState{}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "endorsements": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"endorsements": userID}})
	if err != nil {
		return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}

	if res.MatchedCount == 1 {
		state.Action = "added"
	} else {
		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": objID, "endorsements": userID},
			bson.M{"$pull": bson.M{"endorsements": userID}})
		if err != nil {
			return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrListingNotFound
		}
		state.Action = "removed"
	}

	if state.Action == "added" {
		// promotion fires only while unverified and once the Nth distinct
		// endorser exists; it never reverts
		promoted, err := r.collection.UpdateOne(ctx,
			bson.M{
				"_id":         objID,
				"is_verified": false,
				fmt.Sprintf("endorsements.%d", threshold-1): bson.M{"$exists": true},
			},
			bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now().UTC()}})
		if err != nil {
			return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
		}
		state.Promoted = promoted.ModifiedCount == 1
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	state.Count = len(doc.Endorsements)
	state.IsVerified = doc.IsVerified

	r.logger.Info("Endorsement toggled",
		zap.String("listing_id", listingID),
		zap.String("user_id", userID),
		zap.String("action", state.Action),
		zap.Int("count", state.Count),
		zap.Bool("is_verified", state.IsVerified))
	return state, nil
}

// SetVerified marks the listing verified. The returned flag is false when
// the listing was already verified, letting callers treat a re-verify as a
// no-op.
func (r *ListingRepository) SetVerified(ctx context.Context, listingID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return false, domain.ErrListingNotFound
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "is_verified": false},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	// nothing transitioned: either already verified or missing
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, fmt.Errorf("%w: db count failed: %v", domain.ErrRepository, err)
	}
	if count == 0 {
		return false, domain.ErrListingNotFound
	}
	return false, nil
}
