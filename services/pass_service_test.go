package services

import (
	"strings"
	"testing"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/google/uuid"
)

func TestSubmitApplicationRequiresDocuments(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)

	t.Run("missing photo", func(t *testing.T) {
		user := createUser(t, db, userOpts{noPhoto: true})
		_, err := svc.SubmitApplication(user.ID, models.PassMonthly)
		assertKind(t, err, KindValidation)
	})

	t.Run("missing id proof", func(t *testing.T) {
		user := createUser(t, db, userOpts{noIDProof: true})
		_, err := svc.SubmitApplication(user.ID, models.PassMonthly)
		assertKind(t, err, KindValidation)
	})

	t.Run("student without bonafide certificate", func(t *testing.T) {
		user := createUser(t, db, userOpts{role: models.RoleStudent, noBonafide: true})
		_, err := svc.SubmitApplication(user.ID, models.PassMonthly)
		assertKind(t, err, KindValidation)
	})

	t.Run("general rider without bonafide certificate is fine", func(t *testing.T) {
		user := createUser(t, db, userOpts{role: models.RoleGeneral, noBonafide: true})
		if _, err := svc.SubmitApplication(user.ID, models.PassMonthly); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	})

	t.Run("failure writes nothing", func(t *testing.T) {
		user := createUser(t, db, userOpts{noPhoto: true})
		_, _ = svc.SubmitApplication(user.ID, models.PassMonthly)
		var count int64
		db.Model(&models.Application{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Fatalf("expected no applications after validation failure, got %d", count)
		}
	})
}

func TestSubmitApplicationCreatesPending(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	user := createUser(t, db, userOpts{})

	id, err := svc.SubmitApplication(user.ID, models.PassQuarterly)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	var application models.Application
	if err := db.First(&application, "id = ?", id).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if application.Status != models.ApplicationPending {
		t.Errorf("expected PENDING, got %s", application.Status)
	}
	if application.PassType != models.PassQuarterly {
		t.Errorf("expected QUARTERLY, got %s", application.PassType)
	}
}

func TestSubmitApplicationUnknownUserOrType(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)

	_, err := svc.SubmitApplication(uuid.New(), models.PassMonthly)
	assertKind(t, err, KindNotFound)

	user := createUser(t, db, userOpts{})
	_, err = svc.SubmitApplication(user.ID, models.PassType("WEEKLY"))
	assertKind(t, err, KindValidation)
}

func TestSetApplicationStatus(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	user := createUser(t, db, userOpts{})
	application := createApplication(t, db, user, models.PassMonthly, models.ApplicationPending)

	if err := svc.SetApplicationStatus(application.ID, models.ApplicationApproved); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// any-to-any overwrite is allowed
	if err := svc.SetApplicationStatus(application.ID, models.ApplicationRejected); err != nil {
		t.Fatalf("rejecting an approved application should be allowed: %v", err)
	}

	err := svc.SetApplicationStatus(application.ID, models.ApplicationStatus("ON_HOLD"))
	assertKind(t, err, KindValidation)

	err = svc.SetApplicationStatus(uuid.New(), models.ApplicationApproved)
	assertKind(t, err, KindNotFound)
}

func TestIssuePassIfAbsentIsIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	user := createUser(t, db, userOpts{})
	application := createApplication(t, db, user, models.PassMonthly, models.ApplicationApproved)

	if err := svc.IssuePassIfAbsent(application.ID); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	if err := svc.IssuePassIfAbsent(application.ID); err != nil {
		t.Fatalf("second issue failed: %v", err)
	}

	var count int64
	db.Model(&models.Pass{}).Where("application_id = ?", application.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one pass, got %d", count)
	}

	var pass models.Pass
	db.First(&pass, "application_id = ?", application.ID)
	if !strings.HasPrefix(pass.PassNumber, "BP-") {
		t.Errorf("unexpected pass number format: %s", pass.PassNumber)
	}
	if pass.Status != models.PassActive {
		t.Errorf("expected ACTIVE, got %s", pass.Status)
	}
}

func TestIssuePassValidityWindows(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	issuedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	cases := []struct {
		passType models.PassType
		wantEnd  time.Time
	}{
		{models.PassMonthly, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		{models.PassQuarterly, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)},
		{models.PassYearly, time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		user := createUser(t, db, userOpts{})
		application := createApplication(t, db, user, tc.passType, models.ApplicationApproved)
		if err := svc.IssuePassIfAbsent(application.ID); err != nil {
			t.Fatalf("%s: issue failed: %v", tc.passType, err)
		}
		var pass models.Pass
		db.First(&pass, "application_id = ?", application.ID)
		if !pass.EndDate.Equal(tc.wantEnd) {
			t.Errorf("%s: expected end %s, got %s", tc.passType, tc.wantEnd, pass.EndDate)
		}
		if !pass.StartDate.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("%s: expected start on issuance date, got %s", tc.passType, pass.StartDate)
		}
	}
}

func TestIssuePassNoopUnlessApproved(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	user := createUser(t, db, userOpts{})

	for _, status := range []models.ApplicationStatus{models.ApplicationPending, models.ApplicationRejected} {
		application := createApplication(t, db, user, models.PassMonthly, status)
		if err := svc.IssuePassIfAbsent(application.ID); err != nil {
			t.Fatalf("%s: expected no-op, got %v", status, err)
		}
		var count int64
		db.Model(&models.Pass{}).Where("application_id = ?", application.ID).Count(&count)
		if count != 0 {
			t.Fatalf("%s: expected no pass, got %d", status, count)
		}
	}

	err := svc.IssuePassIfAbsent(uuid.New())
	assertKind(t, err, KindNotFound)
}

func TestGetPassForUserDerivesStatusFromDates(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	today := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	t.Run("lapsed window reads EXPIRED despite stored ACTIVE", func(t *testing.T) {
		user := createUser(t, db, userOpts{})
		application := createApplication(t, db, user, models.PassMonthly, models.ApplicationApproved)
		pass := models.Pass{
			UserID:        user.ID,
			ApplicationID: application.ID,
			PassNumber:    "BP-LAPSED01",
			PassType:      models.PassMonthly,
			StartDate:     today.AddDate(0, -2, 0),
			EndDate:       today.AddDate(0, 0, -1),
			Status:        models.PassActive,
		}
		if err := db.Create(&pass).Error; err != nil {
			t.Fatalf("create pass: %v", err)
		}

		got, err := svc.GetPassForUser(user.Email)
		if err != nil {
			t.Fatalf("get pass: %v", err)
		}
		if got.Status != models.PassExpired {
			t.Errorf("expected derived EXPIRED, got %s", got.Status)
		}

		// the stored column is untouched by the read
		var stored models.Pass
		db.First(&stored, "id = ?", pass.ID)
		if stored.Status != models.PassActive {
			t.Errorf("read should not persist status, stored is %s", stored.Status)
		}
	})

	t.Run("open window reads ACTIVE", func(t *testing.T) {
		user := createUser(t, db, userOpts{})
		application := createApplication(t, db, user, models.PassMonthly, models.ApplicationApproved)
		pass := models.Pass{
			UserID:        user.ID,
			ApplicationID: application.ID,
			PassNumber:    "BP-OPEN0001",
			PassType:      models.PassMonthly,
			StartDate:     today,
			EndDate:       today.AddDate(0, 1, 0),
			Status:        models.PassActive,
		}
		if err := db.Create(&pass).Error; err != nil {
			t.Fatalf("create pass: %v", err)
		}

		got, err := svc.GetPassForUser(user.Email)
		if err != nil {
			t.Fatalf("get pass: %v", err)
		}
		if got.Status != models.PassActive {
			t.Errorf("expected ACTIVE, got %s", got.Status)
		}
	})

	t.Run("no pass returns nil", func(t *testing.T) {
		user := createUser(t, db, userOpts{})
		got, err := svc.GetPassForUser(user.Email)
		if err != nil {
			t.Fatalf("get pass: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}

func TestForceExpireWinsOverDateCheck(t *testing.T) {
	db := setupDB(t)
	svc := NewPassService(db)
	today := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	user := createUser(t, db, userOpts{})
	application := createApplication(t, db, user, models.PassYearly, models.ApplicationApproved)
	pass := models.Pass{
		UserID:        user.ID,
		ApplicationID: application.ID,
		PassNumber:    "BP-FORCED01",
		PassType:      models.PassYearly,
		StartDate:     today,
		EndDate:       today.AddDate(1, 0, 0),
		Status:        models.PassActive,
	}
	if err := db.Create(&pass).Error; err != nil {
		t.Fatalf("create pass: %v", err)
	}

	if err := svc.ForceExpire(pass.ID); err != nil {
		t.Fatalf("force expire: %v", err)
	}

	got, err := svc.GetPassForUser(user.Email)
	if err != nil {
		t.Fatalf("get pass: %v", err)
	}
	if got.Status != models.PassExpired {
		t.Errorf("forced EXPIRED must win even inside the validity window, got %s", got.Status)
	}

	err = svc.ForceExpire(uuid.New())
	assertKind(t, err, KindNotFound)
}
