package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const feeCurrency = "INR"

var baseFares = map[models.PassType]float64{
	models.PassMonthly:   500,
	models.PassQuarterly: 1200,
	models.PassYearly:    4000,
}

var roleDiscounts = map[models.Role]float64{
	models.RoleStudent: 0.20,
}

// ComputeFee is the fare table: base fee by pass type, reduced by the
// role discount. Unknown pass types fall back to the monthly base.
func ComputeFee(passType models.PassType, role models.Role) float64 {
	base, ok := baseFares[passType]
	if !ok {
		base = baseFares[models.PassMonthly]
	}
	return base * (1 - roleDiscounts[role])
}

// OrderDetails is what the client needs to launch the gateway checkout.
type OrderDetails struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// PaymentService keeps the payment ledger and settles applications against
// the gateway. Settlement is the single trigger for pass issuance.
type PaymentService struct {
	db      *gorm.DB
	gateway payments.Gateway
	passes  *PassService
	now     func() time.Time
}

func NewPaymentService(db *gorm.DB, gateway payments.Gateway, passes *PassService) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, passes: passes, now: time.Now}
}

// OpenTransaction opens a gateway order for an approved application. The
// first computed amount sticks: a retry reuses the stored amount rather than
// recomputing the fee. The ledger row is only written after the gateway call
// succeeds, so a gateway failure leaves no trace.
func (s *PaymentService) OpenTransaction(applicationID uuid.UUID, userEmail string) (*OrderDetails, error) {
	application, user, err := s.loadApprovedApplication(applicationID, userEmail)
	if err != nil {
		return nil, err
	}

	amount := ComputeFee(application.PassType, user.Role)
	var existing models.Payment
	err = s.db.Where("application_id = ?", applicationID).First(&existing).Error
	switch {
	case err == nil:
		amount = existing.Amount
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	receipt := fmt.Sprintf("order_rcptid_%s", applicationID)
	orderID, err := s.gateway.OpenOrder(toMinorUnits(amount), feeCurrency, receipt)
	if err != nil {
		return nil, ExternalError("failed to open gateway order", err)
	}

	payment := models.Payment{
		ApplicationID: applicationID,
		Amount:        amount,
		Status:        models.PaymentUnpaid,
	}
	if err := s.db.Create(&payment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	err = s.db.Model(&models.Payment{}).
		Where("application_id = ?", applicationID).
		Update("gateway_order_id", orderID).Error
	if err != nil {
		return nil, err
	}

	return &OrderDetails{
		OrderID:  orderID,
		Amount:   amount,
		Currency: feeCurrency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// ConfirmTransaction verifies the gateway signature, settles the payment and
// issues the pass. A bad signature leaves the ledger untouched.
func (s *PaymentService) ConfirmTransaction(applicationID uuid.UUID, orderID, paymentID, signature string) error {
	var payment models.Payment
	if err := s.db.Where("application_id = ?", applicationID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("no payment open for this application")
		}
		return err
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return SecurityError("invalid payment signature")
	}

	paidAt := s.now()
	err := s.db.Model(&models.Payment{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":             models.PaymentPaid,
			"paid_at":            paidAt,
			"gateway_order_id":   orderID,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
		}).Error
	if err != nil {
		return err
	}

	return s.passes.IssuePassIfAbsent(applicationID)
}

// InitiatePayment is the no-gateway path: it records an UNPAID ledger row for
// an approved application without contacting the provider.
func (s *PaymentService) InitiatePayment(applicationID uuid.UUID, userEmail string) error {
	application, user, err := s.loadApprovedApplication(applicationID, userEmail)
	if err != nil {
		return err
	}

	payment := models.Payment{
		ApplicationID: application.ID,
		Amount:        ComputeFee(application.PassType, user.Role),
		Status:        models.PaymentUnpaid,
	}
	if err := s.db.Create(&payment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

// MarkPaidDirect settles without a gateway round-trip and issues the pass.
// Kept for flows where no signature confirmation is available.
func (s *PaymentService) MarkPaidDirect(applicationID uuid.UUID) error {
	paidAt := s.now()
	res := s.db.Model(&models.Payment{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":  models.PaymentPaid,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("no payment open for this application")
	}
	return s.passes.IssuePassIfAbsent(applicationID)
}

func (s *PaymentService) loadApprovedApplication(applicationID uuid.UUID, userEmail string) (*models.Application, *models.User, error) {
	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundError("application not found")
		}
		return nil, nil, err
	}
	if application.Status != models.ApplicationApproved {
		return nil, nil, PreconditionError("payment allowed only after approval")
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", userEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundError("user not found")
		}
		return nil, nil, err
	}
	return &application, &user, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
