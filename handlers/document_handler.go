package handlers

import (
	"mime/multipart"

	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/storage"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	blobs storage.BlobStorage
}

func NewDocumentHandler(blobs storage.BlobStorage) *DocumentHandler {
	return &DocumentHandler{blobs: blobs}
}

// Upload stores any of id_proof / bonafide_certificate / photo from the
// multipart form and records the URLs on the caller's user row. Re-uploading
// a field replaces the previous document URL.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	uploaded := 0
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
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Document upload failed: " + err.Error()})
		}
		*target = &url
		uploaded++
	}

	if uploaded == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No documents in request"})
	}

	if err := database.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document URLs"})
	}
	return c.JSON(fiber.Map{"message": "Documents uploaded successfully"})
}

func (h *DocumentHandler) uploadOne(c *fiber.Ctx, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.blobs.Upload(c.Context(), file, storage.DocumentFolder)
}
