package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newListingUsecaseForTest() (*ListingUsecase, *MockListingRepository, *MockUserRepository, *MockListingCache, *MockPhotoStorage, *MockEventPublisher, *MockMailer) {
	repo := new(MockListingRepository)
	users := new(MockUserRepository)
	cache := new(MockListingCache)
	storage := new(MockPhotoStorage)
	events := new(MockEventPublisher)
	mailer := new(MockMailer)
	uc := NewListingUsecase(repo, users, cache, storage, events, mailer, logger.NewLogger())
	return uc, repo, users, cache, storage, events, mailer
}

func TestListingUsecase_CreateListing(t *testing.T) {
	ctx := context.Background()
	actor := &domain.Actor{ID: "user-1", Role: domain.RoleUser}

	validInput := CreateListingInput{
		Title:         "Plumbing repairs",
		Category:      "Plumbing",
		ContactNumber: "9876543210",
		Type:          domain.TypeService,
	}

	t.Run("RequiresAuthentication", func(t *testing.T) {
		uc, _, _, _, _, _, _ := newListingUsecaseForTest()
		_, err := uc.CreateListing(ctx, nil, validInput)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("RejectsMissingFieldsInOneMessage", func(t *testing.T) {
		uc, _, _, _, _, _, _ := newListingUsecaseForTest()
		_, err := uc.CreateListing(ctx, actor, CreateListingInput{Description: "no required fields"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "title")
		assert.Contains(t, err.Error(), "category")
		assert.Contains(t, err.Error(), "contactNumber")
		assert.Contains(t, err.Error(), "type")
	})

	t.Run("RejectsUnknownType", func(t *testing.T) {
		uc, _, _, _, _, _, _ := newListingUsecaseForTest()
		input := validInput
		input.Type = "lease"
		_, err := uc.CreateListing(ctx, actor, input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ForcesPosterFromActorAndNormalizesPhone", func(t *testing.T) {
		uc, repo, users, _, _, events, mailer := newListingUsecaseForTest()

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Listing).ID = "listing-1"
		}).Return(nil).Once()
		events.On("Publish", ctx, "listing.created", mock.Anything).Return(nil).Once()
		users.On("FindByID", ctx, "user-1").Return(&domain.User{ID: "user-1", Email: "poster@example.com"}, nil).Once()
		mailer.On("SendListingCreatedEmail", "poster@example.com", "Plumbing repairs").Return(nil).Once()

		listing, err := uc.CreateListing(ctx, actor, validInput)

		assert.NoError(t, err)
		assert.Equal(t, "user-1", listing.PostedBy)
		assert.Equal(t, "+919876543210", listing.ContactNumber)
		assert.False(t, listing.IsVerified)
		assert.Empty(t, listing.Reviews)
		assert.Empty(t, listing.Endorsements)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("EmailFailureDoesNotFailCreation", func(t *testing.T) {
		uc, repo, users, _, _, events, mailer := newListingUsecaseForTest()

		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		events.On("Publish", ctx, "listing.created", mock.Anything).Return(nil).Once()
		users.On("FindByID", ctx, "user-1").Return(&domain.User{ID: "user-1", Email: "poster@example.com"}, nil).Once()
		mailer.On("SendListingCreatedEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		_, err := uc.CreateListing(ctx, actor, validInput)
		assert.NoError(t, err)
	})

	t.Run("UploadsPhotoWhenProvided", func(t *testing.T) {
		uc, repo, users, _, storage, events, mailer := newListingUsecaseForTest()

		storage.On("Upload", ctx, "drill.jpg", []byte{1, 2, 3}).Return("http://minio/photos/abc.jpg", "photos/abc.jpg", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		events.On("Publish", ctx, "listing.created", mock.Anything).Return(nil).Once()
		users.On("FindByID", ctx, "user-1").Return(&domain.User{ID: "user-1"}, nil).Once()
		mailer.On("SendListingCreatedEmail", mock.Anything, mock.Anything).Return(nil).Maybe()

		input := validInput
		input.Photo = &PhotoUpload{FileName: "drill.jpg", Data: []byte{1, 2, 3}}
		listing, err := uc.CreateListing(ctx, actor, input)

		assert.NoError(t, err)
		assert.Equal(t, "http://minio/photos/abc.jpg", listing.PhotoURL)
		assert.Equal(t, "photos/abc.jpg", listing.PhotoKey)
		storage.AssertExpectations(t)
	})
}

func TestListingUsecase_GetListing(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHitSkipsRepository", func(t *testing.T) {
		uc, repo, _, cache, _, _, _ := newListingUsecaseForTest()
		cached := &domain.Listing{ID: "listing-1", Title: "Cached"}
		cache.On("GetListing", ctx, "listing-1").Return(cached, nil).Once()

		listing, err := uc.GetListing(ctx, "listing-1")

		assert.NoError(t, err)
		assert.Equal(t, "Cached", listing.Title)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("CacheMissDenormalizesPosterName", func(t *testing.T) {
		uc, repo, users, cache, _, _, _ := newListingUsecaseForTest()
		cache.On("GetListing", ctx, "listing-1").Return(nil, nil).Once()
		repo.On("FindByID", ctx, "listing-1").Return(&domain.Listing{ID: "listing-1", PostedBy: "user-7"}, nil).Once()
		users.On("FindByID", ctx, "user-7").Return(&domain.User{ID: "user-7", Name: "Asha"}, nil).Once()
		cache.On("SetListing", ctx, mock.Anything).Return(nil).Once()

		listing, err := uc.GetListing(ctx, "listing-1")

		assert.NoError(t, err)
		assert.Equal(t, "Asha", listing.PosterName)
	})

	t.Run("NotFoundPassesThrough", func(t *testing.T) {
		uc, repo, _, cache, _, _, _ := newListingUsecaseForTest()
		cache.On("GetListing", ctx, "missing").Return(nil, nil).Once()
		repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrListingNotFound).Once()

		_, err := uc.GetListing(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestListingUsecase_SearchListings(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaultsAndClamps", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		repo.On("FindByFilter", ctx, domain.ListingFilter{Page: 1, Limit: 12}).Return([]*domain.Listing{}, int64(0), nil).Once()

		res, err := uc.SearchListings(ctx, domain.ListingFilter{Page: -3, Limit: 0})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), res.Page)
		assert.Equal(t, int64(12), res.Limit)
		repo.AssertExpectations(t)
	})

	t.Run("ClampsOversizedLimit", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		repo.On("FindByFilter", ctx, domain.ListingFilter{Page: 1, Limit: 50}).Return([]*domain.Listing{}, int64(0), nil).Once()

		res, err := uc.SearchListings(ctx, domain.ListingFilter{Page: 1, Limit: 500})

		assert.NoError(t, err)
		assert.Equal(t, int64(50), res.Limit)
	})

	t.Run("ComputesPageCount", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		items := []*domain.Listing{{ID: "a"}, {ID: "b"}}
		repo.On("FindByFilter", ctx, domain.ListingFilter{Page: 2, Limit: 2}).Return(items, int64(5), nil).Once()

		res, err := uc.SearchListings(ctx, domain.ListingFilter{Page: 2, Limit: 2})

		assert.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, int64(3), res.PageCount)
		assert.Len(t, res.Items, 2)
	})
}

func TestListingUsecase_UpdateListing(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Actor{ID: "owner-1", Role: domain.RoleUser}
	stranger := &domain.Actor{ID: "other-1", Role: domain.RoleUser}
	admin := &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	stored := &domain.Listing{ID: "listing-1", PostedBy: "owner-1", Title: "Old"}

	newTitle := "New title"

	t.Run("RequiresAuthentication", func(t *testing.T) {
		uc, _, _, _, _, _, _ := newListingUsecaseForTest()
		_, err := uc.UpdateListing(ctx, nil, "listing-1", domain.ListingUpdate{Title: &newTitle}, nil)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("RejectsEmptyUpdate", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		_, err := uc.UpdateListing(ctx, owner, "listing-1", domain.ListingUpdate{}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("ForbidsNonOwner", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()

		_, err := uc.UpdateListing(ctx, stranger, "listing-1", domain.ListingUpdate{Title: &newTitle}, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminMayUpdateAnyListing", func(t *testing.T) {
		uc, repo, _, cache, _, events, _ := newListingUsecaseForTest()
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()
		repo.On("Update", ctx, "listing-1", mock.Anything).Return(&domain.Listing{ID: "listing-1", Title: newTitle}, nil).Once()
		cache.On("DeleteListing", ctx, "listing-1").Return(nil).Once()
		events.On("Publish", ctx, "listing.updated", mock.Anything).Return(nil).Once()

		updated, err := uc.UpdateListing(ctx, admin, "listing-1", domain.ListingUpdate{Title: &newTitle}, nil)
		assert.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
	})

	t.Run("NormalizesUpdatedContactNumber", func(t *testing.T) {
		uc, repo, _, cache, _, events, _ := newListingUsecaseForTest()
		phone := "98765 43210"
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()
		repo.On("Update", ctx, "listing-1", mock.MatchedBy(func(upd domain.ListingUpdate) bool {
			return upd.ContactNumber != nil && *upd.ContactNumber == "+919876543210"
		})).Return(stored, nil).Once()
		cache.On("DeleteListing", ctx, "listing-1").Return(nil).Once()
		events.On("Publish", ctx, "listing.updated", mock.Anything).Return(nil).Once()

		_, err := uc.UpdateListing(ctx, owner, "listing-1", domain.ListingUpdate{ContactNumber: &phone}, nil)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("RejectsInvalidTypeChange", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()
		bad := domain.ListingType("auction")

		_, err := uc.UpdateListing(ctx, owner, "listing-1", domain.ListingUpdate{Type: &bad}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestListingUsecase_DeleteListing(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Actor{ID: "owner-1", Role: domain.RoleUser}
	stranger := &domain.Actor{ID: "other-1", Role: domain.RoleUser}
	stored := &domain.Listing{ID: "listing-1", PostedBy: "owner-1"}

	t.Run("ForbidsNonOwner", func(t *testing.T) {
		uc, repo, _, _, _, _, _ := newListingUsecaseForTest()
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()

		err := uc.DeleteListing(ctx, stranger, "listing-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("OwnerDeletesAndInvalidatesCache", func(t *testing.T) {
		uc, repo, _, cache, _, events, _ := newListingUsecaseForTest()
		repo.On("FindByID", ctx, "listing-1").Return(stored, nil).Once()
		repo.On("Delete", ctx, "listing-1").Return(nil).Once()
		cache.On("DeleteListing", ctx, "listing-1").Return(nil).Once()
		events.On("Publish", ctx, "listing.deleted", mock.Anything).Return(nil).Once()

		err := uc.DeleteListing(ctx, owner, "listing-1")
		assert.NoError(t, err)
		cache.AssertExpectations(t)
	})
}
