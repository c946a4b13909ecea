package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/domain"
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserUsecase implements registration and login against the identity
// collaborator contract: the rest of the service only ever consumes the
// verified {userId, role} pair carried by the issued token.
type UserUsecase struct {
	repo      domain.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *logger.Logger
}

// NewUserUsecase creates a new UserUsecase.
func NewUserUsecase(repo domain.UserRepository, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    log.Named("UserUsecase"),
	}
}

// RegisterInput holds the input parameters for registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

// Register creates a new user account. A missing role defaults to "user".
func (uc *UserUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, role)
	}

	user := &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: input.Password,
		Phone:    strings.TrimSpace(input.Phone),
		Role:     role,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		uc.logger.Error("Failed to register user", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	user.Password = ""
	return user, nil
}

// Login verifies the credentials and issues a signed bearer token carrying
// the user id and role.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     jwt.NewNumericDate(now),
		"exp":     jwt.NewNumericDate(now.Add(uc.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return "", nil, err
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID))
	user.Password = ""
	return token, user, nil
}
