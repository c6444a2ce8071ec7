package routes

import (
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func SosRoutes(app *fiber.App, sos *handlers.SosHandler) {
	api := app.Group("/api/v1/sos", middleware.Protected())

	api.Post("/trigger", sos.Trigger)
}
