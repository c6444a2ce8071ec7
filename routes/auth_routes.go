package routes

import (
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, auth *handlers.AuthHandler, otp *handlers.OtpHandler) {
	api := app.Group("/api/v1/auth")

	api.Post("/send-otp", otp.SendOtp)
	api.Post("/verify-otp", otp.VerifyOtp)
	api.Post("/register", auth.Register)
	api.Post("/login", auth.Login)

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", auth.GetProfile)
	profile.Put("", auth.UpdateProfile)
}
