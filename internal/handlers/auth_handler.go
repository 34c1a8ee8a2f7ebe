package handlers

import (
	"log/slog"

	"pasar/internal/dto"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/verify-email", h.HandleVerifyEmail)
	authRoutes.Post("/resend-verification", h.HandleResendVerification)
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, token, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  models.UserType(req.UserType),
	})
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SignupResponse{
		UserID:      user.ID,
		AccessToken: token,
		TokenType:   dto.BearerTokenType,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: dto.BearerTokenType})
}

// HandleVerifyEmail marks the account named by a verification token as verified.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.VerifyEmail(c.UserContext(), req.VerificationToken); err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

// HandleResendVerification issues a fresh verification token.
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ResendVerification(c.UserContext(), req.UserID); err != nil {
		return serviceError(c, h.logger, err, fiber.StatusNotFound)
	}
	return c.JSON(dto.MessageResponse{Message: "Verification email sent successfully"})
}
