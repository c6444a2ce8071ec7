package handlers

import (
	"github.com/citytransit/bus_pass_backend/services"
	ws "github.com/citytransit/bus_pass_backend/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SosHandler struct {
	sos *services.SosService
}

func NewSosHandler(sos *services.SosService) *SosHandler {
	return &SosHandler{sos: sos}
}

type SosRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	Message   string  `json:"message" validate:"max=500"`
}

func (h *SosHandler) Trigger(c *fiber.Ctx) error {
	var req SosRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	alert, err := h.sos.Trigger(tokenEmail(c), req.Latitude, req.Longitude, req.Message)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "SOS alert sent successfully! Help is on the way.",
		"alert":   alert,
	})
}

func (h *SosHandler) GetAllAlerts(c *fiber.Ctx) error {
	alerts, err := h.sos.AllAlerts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load alerts"})
	}
	return c.JSON(alerts)
}

func (h *SosHandler) GetActiveAlerts(c *fiber.Ctx) error {
	alerts, err := h.sos.ActiveAlerts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load alerts"})
	}
	return c.JSON(alerts)
}

func (h *SosHandler) ResolveAlert(c *fiber.Ctx) error {
	alertID, err := uuid.Parse(c.Params("alertId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid alert ID"})
	}

	if err := h.sos.ResolveAlert(alertID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "SOS alert resolved successfully"})
}

func (h *SosHandler) ActiveAlertCount(c *fiber.Ctx) error {
	count, err := h.sos.ActiveAlertCount()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count alerts"})
	}
	return c.JSON(fiber.Map{"active_alerts": count})
}

// Feed upgrades an admin connection onto the live SOS alert feed.
func (h *SosHandler) Feed() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{Conn: conn}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
			conn.Close()
		}()

		// Reads are discarded; the feed is one-way. Exit on close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
