package routes

import (
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, payment *handlers.PaymentHandler) {
	api := app.Group("/api/v1/payments", middleware.Protected())

	api.Post("/create-order", payment.CreateOrder)
	api.Post("/verify", payment.VerifyPayment)

	// legacy no-gateway pair
	api.Post("/initiate", payment.Initiate)
	api.Post("/pay", payment.Pay)
}
