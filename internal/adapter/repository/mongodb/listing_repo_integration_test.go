package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupListingRepository starts a disposable MongoDB container and returns a
// repository bound to it. Tests are skipped when Docker is not reachable so
// the pure unit tests in this package keep running everywhere.
func setupListingRepository(t *testing.T) *ListingRepository {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start MongoDB container")
	t.Cleanup(func() { _ = pool.Purge(resource) })

	mongoURI := fmt.Sprintf("mongodb://root:password@%s/fixify_test?authSource=admin", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}
		return client.Ping(ctx, nil)
	})
	require.NoError(t, err, "could not connect to MongoDB container")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo, err := NewListingRepository(client.Database("fixify_test"), logger.NewLogger())
	require.NoError(t, err)
	return repo
}

func seedListing(t *testing.T, repo *ListingRepository) string {
	t.Helper()
	listing := &domain.Listing{
		Title:         "Plumbing and tap repair",
		Category:      "Home Services",
		PostedBy:      "poster-1",
		ContactNumber: "+919876543210",
		City:          "Bengaluru",
		Area:          "Indiranagar",
		Pincode:       "560038",
		Price:         499,
		Type:          domain.TypeService,
		ServiceType:   "plumbing",
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing.ID
}

func TestListingRepository_Reviews(t *testing.T) {
	repo := setupListingRepository(t)
	ctx := context.Background()

	t.Run("AppendsDistinctUsers", func(t *testing.T) {
		id := seedListing(t, repo)

		reviews, err := repo.UpsertReview(ctx, id, domain.Review{UserID: "user-1", Rating: 4, Comment: "good"})
		require.NoError(t, err)
		require.Len(t, reviews, 1)

		reviews, err = repo.UpsertReview(ctx, id, domain.Review{UserID: "user-2", Rating: 5, Comment: "great"})
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "user-1", reviews[0].UserID)
		assert.Equal(t, "user-2", reviews[1].UserID)
	})

	t.Run("RepeatReviewReplacesInPlace", func(t *testing.T) {
		id := seedListing(t, repo)

		_, err := repo.UpsertReview(ctx, id, domain.Review{UserID: "user-1", Rating: 4, Comment: "good"})
		require.NoError(t, err)
		_, err = repo.UpsertReview(ctx, id, domain.Review{UserID: "user-2", Rating: 5, Comment: "great"})
		require.NoError(t, err)

		reviews, err := repo.UpsertReview(ctx, id, domain.Review{UserID: "user-1", Rating: 2, Comment: "tap leaks again"})
		require.NoError(t, err)
		require.Len(t, reviews, 2, "repeat review must not grow the sequence")

		// the replaced review keeps its original position and creation time
		assert.Equal(t, "user-1", reviews[0].UserID)
		assert.Equal(t, int32(2), reviews[0].Rating)
		assert.Equal(t, "tap leaks again", reviews[0].Comment)
		assert.True(t, reviews[0].UpdatedAt.After(reviews[0].CreatedAt))
		assert.Equal(t, "user-2", reviews[1].UserID)
		assert.Equal(t, int32(5), reviews[1].Rating)
	})

	t.Run("MissingListing", func(t *testing.T) {
		_, err := repo.UpsertReview(ctx, primitive.NewObjectID().Hex(), domain.Review{UserID: "user-1", Rating: 3})
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestListingRepository_Endorsements(t *testing.T) {
	repo := setupListingRepository(t)
	ctx := context.Background()

	t.Run("ToggleAlternatesAndRestoresCount", func(t *testing.T) {
		id := seedListing(t, repo)

		state, err := repo.ToggleEndorsement(ctx, id, "user-1", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, "added", state.Action)
		assert.Equal(t, 1, state.Count)
		assert.False(t, state.IsVerified)

		state, err = repo.ToggleEndorsement(ctx, id, "user-1", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, "removed", state.Action)
		assert.Equal(t, 0, state.Count)
		assert.False(t, state.IsVerified)
	})

	t.Run("PromotesAtThreshold", func(t *testing.T) {
		id := seedListing(t, repo)

		for i, user := range []string{"user-1", "user-2"} {
			state, err := repo.ToggleEndorsement(ctx, id, user, domain.VerificationThreshold)
			require.NoError(t, err)
			assert.Equal(t, i+1, state.Count)
			assert.False(t, state.IsVerified)
			assert.False(t, state.Promoted)
		}

		state, err := repo.ToggleEndorsement(ctx, id, "user-3", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, 3, state.Count)
		assert.True(t, state.IsVerified)
		assert.True(t, state.Promoted, "the threshold endorsement reports the promotion")

		state, err = repo.ToggleEndorsement(ctx, id, "user-4", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.True(t, state.IsVerified)
		assert.False(t, state.Promoted, "only the transition itself counts as a promotion")
	})

	t.Run("VerificationSurvivesRemoval", func(t *testing.T) {
		id := seedListing(t, repo)

		for _, user := range []string{"user-1", "user-2", "user-3"} {
			_, err := repo.ToggleEndorsement(ctx, id, user, domain.VerificationThreshold)
			require.NoError(t, err)
		}

		state, err := repo.ToggleEndorsement(ctx, id, "user-1", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, "removed", state.Action)
		assert.Equal(t, 2, state.Count)
		assert.True(t, state.IsVerified)

		// re-adding below-threshold support does not fire a second promotion
		state, err = repo.ToggleEndorsement(ctx, id, "user-1", domain.VerificationThreshold)
		require.NoError(t, err)
		assert.Equal(t, "added", state.Action)
		assert.True(t, state.IsVerified)
		assert.False(t, state.Promoted)
	})

	t.Run("MissingListing", func(t *testing.T) {
		_, err := repo.ToggleEndorsement(ctx, primitive.NewObjectID().Hex(), "user-1", domain.VerificationThreshold)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestListingRepository_SetVerified(t *testing.T) {
	repo := setupListingRepository(t)
	ctx := context.Background()

	t.Run("ReportsTheTransitionOnce", func(t *testing.T) {
		id := seedListing(t, repo)

		changed, err := repo.SetVerified(ctx, id)
		require.NoError(t, err)
		assert.True(t, changed)

		listing, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, listing.IsVerified)

		changed, err = repo.SetVerified(ctx, id)
		require.NoError(t, err)
		assert.False(t, changed, "re-verifying an already-verified listing is a no-op")
	})

	t.Run("MissingListing", func(t *testing.T) {
		_, err := repo.SetVerified(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}
