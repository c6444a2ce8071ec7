package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/citytransit/bus_pass_backend/configs"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/notifications"
	"github.com/citytransit/bus_pass_backend/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SosService persists emergency alerts and fans them out to the admin email
// and the live dashboard feed. Notification failures never fail the trigger.
type SosService struct {
	db        *gorm.DB
	mail      func(toName, toEmail, subject, htmlContent string)
	broadcast func(alert *models.SosAlert)
}

func NewSosService(db *gorm.DB) *SosService {
	return &SosService{
		db:        db,
		mail:      notifications.SendEmail,
		broadcast: websocket.BroadcastAlert,
	}
}

func (s *SosService) Trigger(userEmail string, latitude, longitude float64, message string) (*models.SosAlert, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", userEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, err
	}

	if message == "" {
		message = "Emergency SOS triggered!"
	}
	alert := models.SosAlert{
		UserID:    user.ID,
		Latitude:  latitude,
		Longitude: longitude,
		Message:   message,
	}
	if err := s.db.Create(&alert).Error; err != nil {
		return nil, err
	}

	go s.notifyAdmin(&user, &alert)
	s.broadcast(&alert)

	return &alert, nil
}

func (s *SosService) notifyAdmin(user *models.User, alert *models.SosAlert) {
	adminEmail := config.Config("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Println("⚠️ ADMIN_EMAIL not set, skipping SOS email")
		return
	}

	phone := "N/A"
	if user.Phone != nil {
		phone = *user.Phone
	}
	mapsLink := fmt.Sprintf("https://www.google.com/maps?q=%f,%f", alert.Latitude, alert.Longitude)

	subject := fmt.Sprintf("🚨 SOS ALERT - %s needs help!", user.FullName)
	body := fmt.Sprintf(
		"<h1>⚠️ Emergency SOS Alert</h1>"+
			"<p><b>Passenger:</b> %s<br><b>Email:</b> %s<br><b>Phone:</b> %s</p>"+
			"<p><b>📍 Location:</b> <a href='%s'>%s</a></p>"+
			"<p><b>📝 Message:</b> %s</p>"+
			"<p><b>⏰ Time:</b> %s</p>"+
			"<p>Please take immediate action!</p>",
		user.FullName, user.Email, phone, mapsLink, mapsLink, alert.Message,
		time.Now().Format(time.RFC1123),
	)
	s.mail("Admin", adminEmail, subject, body)
}

func (s *SosService) AllAlerts() ([]models.SosAlert, error) {
	var alerts []models.SosAlert
	err := s.db.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (s *SosService) ActiveAlerts() ([]models.SosAlert, error) {
	var alerts []models.SosAlert
	err := s.db.Where("resolved = ?", false).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (s *SosService) ResolveAlert(alertID uuid.UUID) error {
	res := s.db.Model(&models.SosAlert{}).Where("id = ?", alertID).Update("resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError("alert not found")
	}
	return nil
}

func (s *SosService) ActiveAlertCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.SosAlert{}).Where("resolved = ?", false).Count(&count).Error
	return count, err
}
