package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, logging.Discard())
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 7 }).
		Return(nil).Once()

	user, token, err := authService.Signup(ctx, services.SignupInput{
		Email:     " Test@Example.com ",
		Password:  "password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		UserType:  models.UserTypeCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)

	identity, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, models.UserTypeCustomer, identity.UserType)
}

func TestAuthService_SignupEmailTaken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: 1}, nil).Once()

	_, _, err := authService.Signup(ctx, services.SignupInput{
		Email:    "test@example.com",
		Password: "password123",
		UserType: models.UserTypeVendor,
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignupValidation(t *testing.T) {
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	tests := []struct {
		name string
		in   services.SignupInput
	}{
		{"bad email", services.SignupInput{Email: "nope", Password: "password123", UserType: models.UserTypeCustomer}},
		{"short password", services.SignupInput{Email: "a@b.co", Password: "short", UserType: models.UserTypeCustomer}},
		{"unknown type", services.SignupInput{Email: "a@b.co", Password: "password123", UserType: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.Signup(context.Background(), tt.in)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_SignupStoreFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, errors.New("connection refused")).Once()

	_, _, err := authService.Signup(ctx, services.SignupInput{
		Email:    "test@example.com",
		Password: "password123",
		UserType: models.UserTypeCustomer,
	})
	assert.ErrorIs(t, err, services.ErrPersistence)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           42,
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
		UserType:     models.UserTypeVendor,
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	token, err := authService.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "vendor", claims["user_type"])
	assert.Equal(t, services.TokenTypeAccess, claims["type"])
	assert.Equal(t, "HS256", parsedToken.Header["alg"])

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	_, err = authService.Login(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Login(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(repositories.MockUserRepository))

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	identity, err := authService.ValidateToken(sign(jwt.MapClaims{
		"user_id":   3,
		"user_type": "customer",
		"type":      services.TokenTypeAccess,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret))
	require.NoError(t, err)
	assert.Equal(t, uint(3), identity.UserID)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": 3,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": 3,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "another_secret"))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"type": services.TokenTypeAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// A verification token is not a bearer credential.
	_, err = authService.ValidateToken(sign(jwt.MapClaims{
		"user_id": 3,
		"type":    services.TokenTypeEmailVerification,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

// MockNotifier captures verification tokens.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, user *models.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func TestAuthService_SignupSendsVerificationThenVerifyEmail(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	notifier := new(MockNotifier)
	authService := newAuthService(mockRepo).WithNotifier(notifier)

	var verificationToken string
	mockRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 9 }).
		Return(nil).Once()
	notifier.On("SendVerification", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { verificationToken = args.String(2) }).
		Return(nil).Once()

	_, accessToken, err := authService.Signup(ctx, services.SignupInput{
		Email:    "new@example.com",
		Password: "password123",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, verificationToken)
	notifier.AssertExpectations(t)

	// Tokens are not interchangeable.
	_, err = authService.ValidateToken(verificationToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.ErrorIs(t, authService.VerifyEmail(ctx, accessToken), services.ErrInvalidToken)

	mockRepo.On("GetByID", ctx, uint(9)).Return(&models.User{ID: 9}, nil).Once()
	mockRepo.On("MarkEmailVerified", ctx, uint(9)).Return(nil).Once()
	require.NoError(t, authService.VerifyEmail(ctx, verificationToken))

	// Verifying again is a no-op.
	mockRepo.On("GetByID", ctx, uint(9)).Return(&models.User{ID: 9, IsEmailVerified: true}, nil).Once()
	require.NoError(t, authService.VerifyEmail(ctx, verificationToken))
	mockRepo.AssertNumberOfCalls(t, "MarkEmailVerified", 1)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignupSucceedsWhenNotificationFails(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	notifier := new(MockNotifier)
	authService := newAuthService(mockRepo).WithNotifier(notifier)

	mockRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	notifier.On("SendVerification", ctx, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	_, token, err := authService.Signup(ctx, services.SignupInput{
		Email:    "new@example.com",
		Password: "password123",
		UserType: models.UserTypeVendor,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_VerifyEmailErrors(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	authService := newAuthService(mockRepo)

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
		require.NoError(t, err)
		return s
	}

	assert.ErrorIs(t, authService.VerifyEmail(ctx, "garbage"), services.ErrInvalidToken)

	expired := sign(jwt.MapClaims{"user_id": 5, "type": services.TokenTypeEmailVerification, "exp": time.Now().Add(-time.Minute).Unix()})
	assert.ErrorIs(t, authService.VerifyEmail(ctx, expired), services.ErrInvalidToken)

	valid := sign(jwt.MapClaims{"user_id": 5, "type": services.TokenTypeEmailVerification, "exp": time.Now().Add(time.Hour).Unix()})
	mockRepo.On("GetByID", ctx, uint(5)).Return(nil, repositories.ErrNotFound).Once()
	assert.ErrorIs(t, authService.VerifyEmail(ctx, valid), services.ErrUserNotFound)

	mockRepo.On("GetByID", ctx, uint(5)).Return(&models.User{ID: 5}, nil).Once()
	mockRepo.On("MarkEmailVerified", ctx, uint(5)).Return(errors.New("locked")).Once()
	assert.ErrorIs(t, authService.VerifyEmail(ctx, valid), services.ErrPersistence)
}

func TestAuthService_ResendVerification(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(repositories.MockUserRepository)
	notifier := new(MockNotifier)
	authService := newAuthService(mockRepo).WithNotifier(notifier)

	unverified := &models.User{ID: 4, Email: "u@example.com"}
	mockRepo.On("GetByID", ctx, uint(4)).Return(unverified, nil).Once()
	notifier.On("SendVerification", ctx, unverified, mock.AnythingOfType("string")).Return(nil).Once()
	require.NoError(t, authService.ResendVerification(ctx, 4))

	mockRepo.On("GetByID", ctx, uint(5)).Return(&models.User{ID: 5, IsEmailVerified: true}, nil).Once()
	assert.ErrorIs(t, authService.ResendVerification(ctx, 5), services.ErrEmailAlreadyVerified)

	mockRepo.On("GetByID", ctx, uint(6)).Return(nil, repositories.ErrNotFound).Once()
	assert.ErrorIs(t, authService.ResendVerification(ctx, 6), services.ErrUserNotFound)

	notifier.AssertExpectations(t)
}
