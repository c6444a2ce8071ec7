package handlers

import (
	"mime/multipart"

	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/citytransit/bus_pass_backend/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PassHandler struct {
	passes *services.PassService
	blobs  storage.BlobStorage
}

func NewPassHandler(passes *services.PassService, blobs storage.BlobStorage) *PassHandler {
	return &PassHandler{passes: passes, blobs: blobs}
}

// Apply takes a multipart form: pass_type plus any documents not yet on file
// (id_proof, bonafide_certificate, photo). Uploaded documents are stored
// before the application is validated, so a rejected application keeps them.
func (h *PassHandler) Apply(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	passType := models.PassType(c.FormValue("pass_type"))
	if passType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pass_type is required"})
	}

	if err := h.storeDocuments(c, user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Document upload failed: " + err.Error()})
	}

	applicationID, err := h.passes.SubmitApplication(user.ID, passType)
	if err != nil {
		return respondDomainError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":        "Bus pass application submitted successfully",
		"application_id": applicationID,
	})
}

func (h *PassHandler) MyApplications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	applications, err := h.passes.ApplicationsForUser(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load applications"})
	}
	return c.JSON(applications)
}

func (h *PassHandler) MyPass(c *fiber.Ctx) error {
	email := tokenEmail(c)
	pass, err := h.passes.GetPassForUser(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pass"})
	}
	if pass == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No pass found"})
	}
	return c.JSON(pass)
}

func (h *PassHandler) Expiry(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	view, err := h.passes.GetExpiryCountdown(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute expiry"})
	}
	return c.JSON(view)
}

// Expire marks the pass EXPIRED in the database. The frontend calls this when
// its live countdown hits zero; admins may call it directly.
func (h *PassHandler) Expire(c *fiber.Ctx) error {
	passID, err := uuid.Parse(c.Params("passId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pass ID"})
	}

	if err := h.passes.ForceExpire(passID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pass marked as expired"})
}

func (h *PassHandler) storeDocuments(c *fiber.Ctx, user *models.User) error {
	changed := false
	for field, target := range map[string]**string{
		"id_proof":             &user.IDProofURL,
		"bonafide_certificate": &user.BonafideURL,
		"photo":                &user.PhotoURL,
	} {
		header, err := c.FormFile(field)
		if err != nil {
			continue
		}
		url, err := h.uploadOne(c, header)
		if err != nil {
			return err
		}
		*target = &url
		changed = true
	}

	if !changed {
		return nil
	}
	return database.DB.Save(user).Error
}

func (h *PassHandler) uploadOne(c *fiber.Ctx, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.blobs.Upload(c.Context(), file, storage.DocumentFolder)
}
