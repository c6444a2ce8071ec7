package handlers

import (
	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	passes *services.PassService
}

func NewAdminHandler(passes *services.PassService) *AdminHandler {
	return &AdminHandler{passes: passes}
}

func (h *AdminHandler) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load users"})
	}
	return c.JSON(users)
}

// DeactivateUser soft-deletes: the row stays, the account can no longer log
// in. Users are never hard-deleted.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	res := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(fiber.Map{"message": "User deactivated successfully"})
}

func (h *AdminHandler) GetAllApplications(c *fiber.Ctx) error {
	applications, err := h.passes.AllApplications()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load applications"})
	}
	return c.JSON(applications)
}

type UpdateStatusRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4"`
	Status        string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func (h *AdminHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID"})
	}

	if err := h.passes.SetApplicationStatus(applicationID, models.ApplicationStatus(req.Status)); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated to " + req.Status})
}

func (h *AdminHandler) GetAllPasses(c *fiber.Ctx) error {
	passes, err := h.passes.GetAllPasses()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load passes"})
	}
	return c.JSON(passes)
}
