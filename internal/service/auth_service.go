package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

var (
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the account no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrPromotionDisabled indicates self promotion is switched off.
	ErrPromotionDisabled = errors.New("self promotion to admin is disabled")
)

// AuthConfig controls token issuance.
type AuthConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	AllowSelfPromotion bool
}

// AuthService handles registration, login and role promotion.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error)
	PromoteToAdmin(ctx context.Context, userID uint) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	config    AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the identity service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &authService{
		users:     users,
		validator: validate,
		activity:  activity,
		config:    cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	payload.Username = strings.TrimSpace(payload.Username)
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.UserResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     payload.Username,
		PasswordHash: string(hash),
		Role:         models.UserRoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrUsernameTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return newUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	access, err := s.issue(user, "access", s.config.AccessSecret, s.config.AccessTTL)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	refresh, err := s.issue(user, "refresh", s.config.RefreshSecret, s.config.RefreshTTL)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{Access: access, Refresh: refresh, Username: user.Username}, nil
}

func (s *authService) PromoteToAdmin(ctx context.Context, userID uint) (dto.UserResponse, error) {
	if !s.config.AllowSelfPromotion {
		return dto.UserResponse{}, ErrPromotionDisabled
	}

	user, err := s.users.UpdateRole(ctx, userID, models.UserRoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.logger.Warn().Uint("user_id", user.ID).Msg("user promoted to admin")
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      ActivityActor{ID: user.ID, Role: models.UserRoleUser},
		Action:     models.ActivityUserPromoted,
		EntityType: "user",
		EntityID:   uintPtr(user.ID),
		Metadata:   map[string]interface{}{"username": user.Username, "role": user.Role},
	})

	return newUserResponse(user), nil
}

func (s *authService) issue(user models.User, kind, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is not configured")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"role":     user.Role,
		"username": user.Username,
		"type":     kind,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func newUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{ID: user.ID, Username: user.Username, Role: user.Role}
}
