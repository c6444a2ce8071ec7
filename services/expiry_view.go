package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpiryStatusNoPass  = "NO_PASS"
	ExpiryStatusActive  = "ACTIVE"
	ExpiryStatusExpired = "EXPIRED"
)

// PassExpiryView is the countdown shown on the user dashboard.
type PassExpiryView struct {
	PassID        *uuid.UUID      `json:"pass_id,omitempty"`
	PassNumber    string          `json:"pass_number,omitempty"`
	PassType      models.PassType `json:"pass_type,omitempty"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	DaysRemaining int64           `json:"days_remaining"`
	Status        string          `json:"status"`
	Message       string          `json:"message"`
}

// GetExpiryCountdown computes days remaining on the user's latest-ending pass.
// Days are counted between calendar dates, so the value may be negative once
// the pass has lapsed.
func (s *PassService) GetExpiryCountdown(userID uuid.UUID) (*PassExpiryView, error) {
	var pass models.Pass
	err := s.db.
		Where("user_id = ?", userID).
		Order("end_date DESC").
		First(&pass).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PassExpiryView{
				Status:  ExpiryStatusNoPass,
				Message: "You don't have an active pass. Apply for one now! 🎫",
			}, nil
		}
		return nil, err
	}

	days := daysBetween(s.now(), pass.EndDate)

	view := &PassExpiryView{
		PassID:        &pass.ID,
		PassNumber:    pass.PassNumber,
		PassType:      pass.PassType,
		StartDate:     &pass.StartDate,
		EndDate:       &pass.EndDate,
		DaysRemaining: days,
		Status:        ExpiryStatusActive,
	}

	switch {
	case days < 0:
		view.Status = ExpiryStatusExpired
		view.Message = fmt.Sprintf("Your pass has expired %d days ago ❌", -days)
	case days == 0:
		view.Message = "Your pass expires today! ⚠️"
	case days == 1:
		view.Message = "Your pass expires in 1 day ⏳"
	case days <= 7:
		view.Message = fmt.Sprintf("Your pass expires in %d days ⏳", days)
	case days <= 30:
		view.Message = fmt.Sprintf("Your pass expires in %d days 📅", days)
	default:
		view.Message = fmt.Sprintf("Your pass is valid for %d more days ✅", days)
	}

	return view, nil
}
