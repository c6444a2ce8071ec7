package services

import (
	"strings"
	"testing"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/google/uuid"
)

func newSosServiceForTest(t *testing.T) (*SosService, chan string, *[]*models.SosAlert) {
	t.Helper()
	db := setupDB(t)
	svc := NewSosService(db)

	mails := make(chan string, 4)
	svc.mail = func(_, _, subject, _ string) { mails <- subject }

	var broadcasts []*models.SosAlert
	svc.broadcast = func(alert *models.SosAlert) { broadcasts = append(broadcasts, alert) }

	return svc, mails, &broadcasts
}

func TestSosTriggerPersistsAndBroadcasts(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@citytransit.example")
	svc, mails, broadcasts := newSosServiceForTest(t)
	user := createUser(t, svc.db, userOpts{})

	alert, err := svc.Trigger(user.Email, 12.9716, 77.5946, "Bus broke down near the depot")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if alert.ID == uuid.Nil {
		t.Error("expected a persisted alert id")
	}
	if alert.Resolved {
		t.Error("new alerts start unresolved")
	}

	var stored models.SosAlert
	if err := svc.db.First(&stored, "id = ?", alert.ID).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}
	if stored.Latitude != 12.9716 || stored.Longitude != 77.5946 {
		t.Errorf("coordinates not stored: %+v", stored)
	}

	if len(*broadcasts) != 1 || (*broadcasts)[0].ID != alert.ID {
		t.Errorf("expected one broadcast for the alert, got %v", *broadcasts)
	}

	select {
	case subject := <-mails:
		if !strings.Contains(subject, "SOS") {
			t.Errorf("unexpected mail subject %q", subject)
		}
	case <-time.After(time.Second):
		t.Error("admin mail was never sent")
	}
}

func TestSosTriggerDefaultsMessage(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@citytransit.example")
	svc, mails, _ := newSosServiceForTest(t)
	user := createUser(t, svc.db, userOpts{})

	alert, err := svc.Trigger(user.Email, 1, 2, "")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if alert.Message == "" {
		t.Error("expected a default message for blank input")
	}
	<-mails
}

func TestSosTriggerUnknownUser(t *testing.T) {
	svc, _, _ := newSosServiceForTest(t)

	_, err := svc.Trigger("nobody@example.com", 1, 2, "help")
	assertKind(t, err, KindNotFound)
}

func TestSosResolveAndCount(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@citytransit.example")
	svc, _, _ := newSosServiceForTest(t)
	user := createUser(t, svc.db, userOpts{})

	first, err := svc.Trigger(user.Email, 1, 2, "first")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if _, err := svc.Trigger(user.Email, 3, 4, "second"); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	count, err := svc.ActiveAlertCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 active alerts, got %d", count)
	}

	if err := svc.ResolveAlert(first.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	active, err := svc.ActiveAlerts()
	if err != nil {
		t.Fatalf("active alerts: %v", err)
	}
	if len(active) != 1 || active[0].Message != "second" {
		t.Errorf("expected only the unresolved alert, got %+v", active)
	}

	all, err := svc.AllAlerts()
	if err != nil {
		t.Fatalf("all alerts: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("resolved alerts stay in the history, got %d", len(all))
	}

	err = svc.ResolveAlert(uuid.New())
	assertKind(t, err, KindNotFound)
}
