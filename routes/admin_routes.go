package routes

import (
	"github.com/citytransit/bus_pass_backend/handlers"
	"github.com/citytransit/bus_pass_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, admin *handlers.AdminHandler, sos *handlers.SosHandler) {
	api := app.Group("/api/v1")

	adm := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := adm.Group("/users")
	users.Get("", admin.GetAllUsers)
	users.Delete("/:userId", admin.DeactivateUser)

	adm.Get("/applications", admin.GetAllApplications)
	adm.Post("/update-status", admin.UpdateApplicationStatus)
	adm.Get("/passes", admin.GetAllPasses)

	alerts := adm.Group("/sos")
	alerts.Get("", sos.GetAllAlerts)
	alerts.Get("/active", sos.GetActiveAlerts)
	alerts.Get("/count", sos.ActiveAlertCount)
	alerts.Post("/:alertId/resolve", sos.ResolveAlert)
	alerts.Get("/ws", sos.Feed())
}
