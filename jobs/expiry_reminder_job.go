package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/citytransit/bus_pass_backend/database"
	"github.com/citytransit/bus_pass_backend/models"
	"github.com/citytransit/bus_pass_backend/notifications"
)

// SendExpiryReminders emails holders of passes that lapse within a week.
// Read-only: pass status is never mutated by a background job, only derived
// on read or forced by an explicit expire action.
func SendExpiryReminders() {
	log.Println("Running job: SendExpiryReminders...")

	today := time.Now().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, 7)

	var expiring []models.Pass
	err := database.DB.
		Preload("User").
		Where("status = ? AND end_date >= ? AND end_date <= ?", models.PassActive, today, cutoff).
		Find(&expiring).Error
	if err != nil {
		log.Printf("Error checking for expiring passes: %v", err)
		return
	}

	for _, pass := range expiring {
		daysLeft := int(pass.EndDate.Sub(today).Hours() / 24)

		emailSubject := "Your bus pass is expiring soon"
		emailBody := fmt.Sprintf(
			"<h1>Pass Expiry Reminder</h1><p>Hi %s,</p><p>Your %s pass <b>%s</b> expires on %s (%d day(s) left). Renew in time to keep riding.</p>",
			pass.User.FullName,
			pass.PassType,
			pass.PassNumber,
			pass.EndDate.Format("02 Jan 2006"),
			daysLeft,
		)

		go notifications.SendEmail(pass.User.FullName, pass.User.Email, emailSubject, emailBody)
	}

	if len(expiring) > 0 {
		log.Printf("Sent %d expiry reminder(s)", len(expiring))
	}
}
