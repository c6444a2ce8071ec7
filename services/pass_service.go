package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var passDurations = map[models.PassType]func(time.Time) time.Time{
	models.PassMonthly:   func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	models.PassQuarterly: func(t time.Time) time.Time { return t.AddDate(0, 3, 0) },
	models.PassYearly:    func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
}

// PassService drives the application -> approval -> issuance -> expiry flow.
type PassService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPassService(db *gorm.DB) *PassService {
	return &PassService{db: db, now: time.Now}
}

// SubmitApplication creates a PENDING application after checking the user has
// the required documents on file. Students additionally need a bonafide
// certificate. Nothing is written when validation fails.
func (s *PassService) SubmitApplication(userID uuid.UUID, passType models.PassType) (uuid.UUID, error) {
	if _, ok := passDurations[passType]; !ok {
		return uuid.Nil, ValidationError(fmt.Sprintf("unknown pass type: %s", passType))
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, NotFoundError("user not found")
		}
		return uuid.Nil, err
	}

	if user.PhotoURL == nil || *user.PhotoURL == "" {
		return uuid.Nil, ValidationError("identity photo is required before applying")
	}
	if user.IDProofURL == nil || *user.IDProofURL == "" {
		return uuid.Nil, ValidationError("identity proof document is required before applying")
	}
	if user.Role == models.RoleStudent && (user.BonafideURL == nil || *user.BonafideURL == "") {
		return uuid.Nil, ValidationError("bonafide certificate is required for student applicants")
	}

	application := models.Application{
		UserID:   user.ID,
		PassType: passType,
		Status:   models.ApplicationPending,
	}
	if err := s.db.Create(&application).Error; err != nil {
		return uuid.Nil, err
	}
	return application.ID, nil
}

// SetApplicationStatus overwrites the status unconditionally. The original
// workflow allows any transition (re-approval, approved -> rejected), so only
// the status value itself is checked. Admin authorization is the caller's job.
func (s *PassService) SetApplicationStatus(applicationID uuid.UUID, status models.ApplicationStatus) error {
	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return ValidationError(fmt.Sprintf("status must be APPROVED or REJECTED, got %s", status))
	}
	res := s.db.Model(&models.Application{}).Where("id = ?", applicationID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("application not found")
	}
	return nil
}

// IssuePassIfAbsent issues the pass for a settled application. It is safe to
// call repeatedly: the unique index on application_id turns a concurrent
// double-issue into a duplicate-key insert, which is treated as success.
// A no-op unless the application is APPROVED.
func (s *PassService) IssuePassIfAbsent(applicationID uuid.UUID) error {
	var existing int64
	if err := s.db.Model(&models.Pass{}).Where("application_id = ?", applicationID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("application not found")
		}
		return err
	}
	if application.Status != models.ApplicationApproved {
		return nil
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", application.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("no user found for application %s", applicationID))
		}
		return err
	}

	passNumber, err := utils.GeneratePassNumber(s.db)
	if err != nil {
		return err
	}

	start := dateOnly(s.now())
	pass := models.Pass{
		UserID:        user.ID,
		ApplicationID: application.ID,
		PassNumber:    passNumber,
		PassType:      application.PassType,
		StartDate:     start,
		EndDate:       passDurations[application.PassType](start),
		Status:        models.PassActive,
	}
	if err := s.db.Create(&pass).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// GetPassForUser returns the user's latest pass with its effective status, or
// nil when the user holds none.
func (s *PassService) GetPassForUser(email string) (*models.Pass, error) {
	var pass models.Pass
	err := s.db.
		Joins("JOIN users ON users.id = passes.user_id").
		Where("users.email = ?", email).
		Order("passes.end_date DESC").
		First(&pass).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	pass.Status = s.effectiveStatus(&pass)
	return &pass, nil
}

func (s *PassService) GetAllPasses() ([]models.Pass, error) {
	var passes []models.Pass
	if err := s.db.Order("created_at DESC").Find(&passes).Error; err != nil {
		return nil, err
	}
	for i := range passes {
		passes[i].Status = s.effectiveStatus(&passes[i])
	}
	return passes, nil
}

// ForceExpire persists EXPIRED on the pass. This is the only write path for
// the stored status column; once set it wins over the date-derived status.
func (s *PassService) ForceExpire(passID uuid.UUID) error {
	res := s.db.Model(&models.Pass{}).Where("id = ?", passID).Update("status", models.PassExpired)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("pass not found")
	}
	return nil
}

func (s *PassService) ApplicationsForUser(userID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (s *PassService) AllApplications() ([]models.Application, error) {
	var applications []models.Application
	err := s.db.Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// Status resolution rule: a persisted EXPIRED is an administrative override
// and always wins; otherwise status is derived from the validity window.
func (s *PassService) effectiveStatus(pass *models.Pass) models.PassStatus {
	if pass.Status == models.PassExpired {
		return models.PassExpired
	}
	if dateOnly(s.now()).After(dateOnly(pass.EndDate)) {
		return models.PassExpired
	}
	return models.PassActive
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int64 {
	return int64(math.Round(dateOnly(to).Sub(dateOnly(from)).Hours() / 24))
}
