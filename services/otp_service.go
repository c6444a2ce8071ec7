package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/citytransit/bus_pass_backend/cache"
	"github.com/citytransit/bus_pass_backend/notifications"
)

const otpValidity = 5 * time.Minute

// OtpService issues and validates single-use registration/login codes.
type OtpService struct {
	store cache.OtpStore
	mail  func(toName, toEmail, subject, htmlContent string)
}

func NewOtpService(store cache.OtpStore) *OtpService {
	return &OtpService{store: store, mail: notifications.SendEmail}
}

// Issue generates a 6-digit code, stores it with a 5-minute TTL and emails it.
// The previous code for the email, if any, is replaced.
func (s *OtpService) Issue(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, email, code, otpValidity); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<h1>Your verification code</h1><p>Your code is: <b>%s</b></p><p>It is valid for %d minutes.</p>",
		code, int(otpValidity.Minutes()),
	)
	go s.mail("", email, "Your Bus Pass verification code", body)
	return nil
}

// Validate checks the code and consumes it on success. Codes are single-use.
func (s *OtpService) Validate(ctx context.Context, email, code string) bool {
	if email == "" || code == "" {
		return false
	}
	stored, err := s.store.Get(ctx, email)
	if err != nil || stored == "" || stored != code {
		return false
	}
	if err := s.store.Del(ctx, email); err != nil {
		return false
	}
	return true
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
