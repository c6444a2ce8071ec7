package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:buspass_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.Payment{},
		&models.Pass{},
		&models.SosAlert{},
	)
	if err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }

type userOpts struct {
	role        models.Role
	noPhoto     bool
	noIDProof   bool
	noBonafide  bool
	email       string
	inactiveAcc bool
}

func createUser(t *testing.T, db *gorm.DB, opts userOpts) models.User {
	t.Helper()
	email := opts.email
	if email == "" {
		email = fmt.Sprintf("rider_%d@example.com", time.Now().UnixNano())
	}
	role := opts.role
	if role == "" {
		role = models.RoleGeneral
	}
	user := models.User{
		FullName: "Test Rider",
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: !opts.inactiveAcc,
	}
	if !opts.noPhoto {
		user.PhotoURL = strptr("https://cdn.example.com/photo.jpg")
	}
	if !opts.noIDProof {
		user.IDProofURL = strptr("https://cdn.example.com/id.pdf")
	}
	if !opts.noBonafide {
		user.BonafideURL = strptr("https://cdn.example.com/bonafide.pdf")
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createApplication(t *testing.T, db *gorm.DB, user models.User, passType models.PassType, status models.ApplicationStatus) models.Application {
	t.Helper()
	application := models.Application{
		UserID:   user.ID,
		PassType: passType,
		Status:   status,
	}
	if err := db.Create(&application).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}
	return application
}

// fakeGateway accepts exactly one signature and can be told to fail order
// creation.
type fakeGateway struct {
	opened   []string
	failOpen bool
}

const fakeValidSignature = "sig-ok"

func (g *fakeGateway) OpenOrder(amountMinor int64, currency, receipt string) (string, error) {
	if g.failOpen {
		return "", fmt.Errorf("gateway unreachable")
	}
	orderID := fmt.Sprintf("order_test_%d", len(g.opened)+1)
	g.opened = append(g.opened, fmt.Sprintf("%s:%d:%s:%s", orderID, amountMinor, currency, receipt))
	return orderID, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == fakeValidSignature
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	kind, ok := KindOf(err)
	if !ok {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if kind != want {
		t.Fatalf("expected error kind %d, got %d (%v)", want, kind, err)
	}
}
