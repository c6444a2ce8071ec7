package handlers

import (
	"errors"

	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var validate = validator.New()

// respondDomainError maps the service error taxonomy onto HTTP statuses.
// Security errors deliberately return a bare reason, nothing internal.
func respondDomainError(c *fiber.Ctx, err error) error {
	kind, ok := services.KindOf(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	switch kind {
	case services.KindValidation, services.KindPrecondition:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case services.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case services.KindSecurity:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid"})
	case services.KindExternal:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Upstream service failed, please retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

func tokenEmail(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	email := tokenEmail(c)
	if email == "" {
		return nil, errors.New("no email claim in token")
	}
	var user models.User
	if err := database.DB.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}
