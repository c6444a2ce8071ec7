package routes

import (
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func PassRoutes(app *fiber.App, pass *handlers.PassHandler, docs *handlers.DocumentHandler) {
	api := app.Group("/api/v1", middleware.Protected())

	passes := api.Group("/pass")
	passes.Post("/apply", pass.Apply)
	passes.Get("/my-applications", pass.MyApplications)
	passes.Get("/me", pass.MyPass)
	passes.Get("/expiry", pass.Expiry)
	passes.Put("/:passId/expire", pass.Expire)

	api.Post("/documents/upload", docs.Upload)
	api.Get("/uploads/signature", handlers.GenerateUploadSignature)
}
