package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const userCollectionName = "users"

// UserRepository implements domain.UserRepository using MongoDB. Password
// hashing happens here so plain credentials never reach the datastore.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates the repository and ensures the unique email index.
func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	collection := db.Collection(userCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for users collection (may already exist)", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for users collection")
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}, nil
}

// Create hashes the password and inserts the user. Email is stored
// lowercased so uniqueness is case-insensitive.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		r.logger.Error("Failed to hash password during user creation", zap.Error(err))
		return fmt.Errorf("%w: password hashing failed: %v", domain.ErrRepository, err)
	}

	now := time.Now().UTC()
	doc := &userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     strings.ToLower(strings.TrimSpace(user.Email)),
		Password:  string(hashed),
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate email during user creation", zap.String("email", doc.Email))
			return domain.ErrEmailTaken
		}
		r.logger.Error("Database error during user creation", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}

	user.ID = doc.ID.Hex()
	user.Email = doc.Email
	user.Password = doc.Password
	user.CreatedAt = now
	user.UpdatedAt = now
	r.logger.Info("User created in DB", zap.String("user_id", user.ID))
	return nil
}

// FindByEmail looks a user up by (case-insensitive) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomainUser(), nil
}

// FindByID looks a user up by hex id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomainUser(), nil
}
