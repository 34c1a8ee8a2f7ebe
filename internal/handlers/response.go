package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pasar/internal/dto"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validationFailed writes the field error map for a failed struct validation.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func fieldErrorsMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// ErrorHandler renders errors returned from handlers as JSON.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}
		logger.Error("unhandled request error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}

func badRequestBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// serviceError maps a service error to a status code. Persistence failures
// never expose their cause.
func serviceError(c *fiber.Ctx, logger *slog.Logger, err error, notFoundStatus int) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrProductNotFound):
		return c.Status(notFoundStatus).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid or expired verification token"})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrEmailAlreadyVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrPersistence):
	default:
		logger.Error("unexpected service error", "path", c.Path(), "error", err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}

// parseListQuery reads page and limit, falling back to the defaults.
func parseListQuery(c *fiber.Ctx, validate *validator.Validate) (dto.ListQuery, error) {
	q := dto.NewListQuery()
	if err := c.QueryParser(&q); err != nil {
		return q, err
	}
	return q, validate.Struct(q)
}
