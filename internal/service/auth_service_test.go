package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quiz-grading-api/internal/dto"
	"github.com/noah-isme/quiz-grading-api/internal/models"
	"github.com/noah-isme/quiz-grading-api/internal/repository"
)

func newAuth(t *testing.T, allowPromotion bool) (AuthService, ActivityService) {
	t.Helper()
	db := setupServiceDB(t)
	activity := NewActivityService(repository.NewActivityLogRepository(db), testLogger())
	svc := NewAuthService(repository.NewUserRepository(db), validator.New(), activity, AuthConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		AccessTTL:          time.Minute,
		RefreshTTL:         time.Hour,
		AllowSelfPromotion: allowPromotion,
	}, testLogger())
	return svc, activity
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc, _ := newAuth(t, false)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "  learner  ", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "learner", user.Username)
	require.Equal(t, models.UserRoleUser, user.Role)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "learner", Password: "password456"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "learner", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := svc.Login(ctx, dto.LoginRequest{Username: "learner", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "learner", tokens.Username)

	parsed, err := jwt.Parse(tokens.Access, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "user", claims["role"])
	require.Equal(t, "access", claims["type"])
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	require.NotEmpty(t, sub)

	_, err = jwt.Parse(tokens.Refresh, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.Error(t, err)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc, _ := newAuth(t, false)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "ab", Password: "short"})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestAuthServicePromoteToAdmin(t *testing.T) {
	disabled, _ := newAuth(t, false)
	_, err := disabled.PromoteToAdmin(context.Background(), 1)
	require.ErrorIs(t, err, ErrPromotionDisabled)

	svc, activity := newAuth(t, true)
	ctx := context.Background()
	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "climber", Password: "password123"})
	require.NoError(t, err)

	promoted, err := svc.PromoteToAdmin(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.UserRoleAdmin, promoted.Role)

	_, err = svc.PromoteToAdmin(ctx, user.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)

	entries, err := activity.List(ctx, dto.ActivityListRequest{Action: models.ActivityUserPromoted})
	require.NoError(t, err)
	require.Len(t, entries.Items, 1)
}
