package handlers

import (
	"errors"

	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OtpHandler struct {
	otp *services.OtpService
}

func NewOtpHandler(otp *services.OtpService) *OtpHandler {
	return &OtpHandler{otp: otp}
}

func (h *OtpHandler) SendOtp(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.otp.Issue(c.Context(), req.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP"})
	}
	return c.JSON(fiber.Map{"message": "OTP sent successfully to " + req.Email})
}

// VerifyOtp consumes a code. When the email already belongs to a user the
// response doubles as a login; otherwise the frontend proceeds to register.
func (h *OtpHandler) VerifyOtp(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
		Otp   string `json:"otp" validate:"required,len=6"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !h.otp.Validate(c.Context(), req.Email, req.Otp) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or expired OTP"})
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"message": "OTP verified successfully"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	t, err := issueToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.JSON(profileOf(&user, t))
}
