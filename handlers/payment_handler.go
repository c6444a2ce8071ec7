package handlers

import (
	"github.com/citytransit/bus_pass_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type CreateOrderRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4"`
}

// CreateOrder opens a gateway order for the caller's approved application and
// returns what the checkout widget needs.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
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

	order, err := h.payments.OpenTransaction(applicationID, tokenEmail(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(order)
}

type VerifyPaymentRequest struct {
	ApplicationID    string `json:"application_id" validate:"required,uuid4"`
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	GatewaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment settles the payment after checkout. A valid signature marks
// the payment PAID and issues the pass; a tampered one changes nothing.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
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

	err = h.payments.ConfirmTransaction(applicationID, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment verified successfully"})
}

// Initiate and Pay are the legacy no-gateway pair kept for kiosk/counter
// flows: record the unpaid amount, then settle without a signature.
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Query("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID"})
	}

	if err := h.payments.InitiatePayment(applicationID, tokenEmail(c)); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment initiated successfully (UNPAID)"})
}

func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Query("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID"})
	}

	if err := h.payments.MarkPaidDirect(applicationID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment successful (PAID)"})
}
