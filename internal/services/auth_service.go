package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess            = "access"
	TokenTypeEmailVerification = "email_verification"
)

// Identity is the authenticated caller carried by a token.
type Identity struct {
	UserID   uint
	UserType models.UserType
}

// VerificationNotifier delivers an email verification token to a user.
type VerificationNotifier interface {
	SendVerification(ctx context.Context, user *models.User, token string) error
}

// LogVerificationNotifier writes verification tokens to the log instead of
// sending mail.
type LogVerificationNotifier struct {
	Logger *slog.Logger
}

func (n LogVerificationNotifier) SendVerification(ctx context.Context, user *models.User, token string) error {
	n.Logger.Debug("email verification issued", "user_id", user.ID, "email", user.Email, "verification_token", token)
	return nil
}

// AuthService handles signup, login, email verification and token validation.
type AuthService struct {
	userRepo  repositories.UserRepository
	notifier  VerificationNotifier
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService. Verification tokens go to the log
// until WithNotifier sets a real notifier.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		notifier:  LogVerificationNotifier{Logger: logger},
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// WithNotifier replaces the verification notifier.
func (s *AuthService) WithNotifier(n VerificationNotifier) *AuthService {
	s.notifier = n
	return s
}

// SignupInput is a new account request.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	UserType  models.UserType
}

// Signup registers a new user with a hashed password, sends an email
// verification token and returns an access token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", validationErrorf("email is invalid")
	}
	if len(in.Password) < 8 {
		return nil, "", validationErrorf("password must be at least 8 characters")
	}
	if in.UserType != models.UserTypeCustomer && in.UserType != models.UserTypeVendor {
		return nil, "", validationErrorf("user_type must be customer or vendor")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		s.logger.Error("failed to look up user", "error", err)
		return nil, "", ErrPersistence
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		UserType:     in.UserType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to register user", "error", err)
		return nil, "", ErrPersistence
	}

	// Delivery problems never fail the signup; the user can ask for a resend.
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn("failed to send verification email", "user_id", user.ID, "error", err)
	}

	token, err := s.issueToken(user, TokenTypeAccess)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user and returns a JWT token if successful.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("failed to look up user", "error", err)
		}
		// Unknown email and wrong password look the same to the caller.
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(user, TokenTypeAccess)
}

// VerifyEmail marks the user named by an email verification token as verified.
// Verifying twice is not an error.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString, TokenTypeEmailVerification)
	if err != nil {
		return err
	}
	userID, err := userIDClaim(claims)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("failed to look up user", "user_id", userID, "error", err)
		return ErrPersistence
	}
	if user.IsEmailVerified {
		return nil
	}
	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		s.logger.Error("failed to mark email verified", "user_id", user.ID, "error", err)
		return ErrPersistence
	}
	return nil
}

// ResendVerification issues a fresh verification token for an unverified user.
func (s *AuthService) ResendVerification(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("failed to look up user", "user_id", userID, "error", err)
		return ErrPersistence
	}
	if user.IsEmailVerified {
		return ErrEmailAlreadyVerified
	}
	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Error("failed to send verification email", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.issueToken(user, TokenTypeEmailVerification)
	if err != nil {
		return err
	}
	return s.notifier.SendVerification(ctx, user, token)
}

func (s *AuthService) issueToken(user *models.User, tokenType string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"user_type": string(user.UserType),
		"type":      tokenType,
		"exp":       now.Add(s.tokenTTL).Unix(),
		"iat":       now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates an access token, returning the caller identity.
func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	claims, err := s.parse(tokenString, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	userID, err := userIDClaim(claims)
	if err != nil {
		return nil, err
	}
	userType, _ := claims["user_type"].(string)
	return &Identity{UserID: userID, UserType: models.UserType(userType)}, nil
}

func (s *AuthService) parse(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	}
	return claims, nil
}

func userIDClaim(claims jwt.MapClaims) (uint, error) {
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID < 1 {
		return 0, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}
	return uint(rawID), nil
}
