package handler

import (
	"context"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/feesms/fees-management-backend/internal/config"
	"github.com/feesms/fees-management-backend/internal/model"
	"github.com/feesms/fees-management-backend/internal/repository"
)

type fakeAdminStore struct {
	admins map[string]model.Admin // keyed by id
}

func newFakeAdminStore(admins ...model.Admin) *fakeAdminStore {
	s := &fakeAdminStore{admins: make(map[string]model.Admin)}
	for _, a := range admins {
		s.admins[a.ID] = a
	}
	return s
}

func (s *fakeAdminStore) Create(_ context.Context, email, password string, cost int) (string, error) {
	for _, a := range s.admins {
		if a.Email == email {
			return "", repository.ErrEmailExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	id := "admin-new"
	s.admins[id] = model.Admin{ID: id, Email: email, PasswordHash: string(hash)}
	return id, nil
}

func (s *fakeAdminStore) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *fakeAdminStore) GetByID(_ context.Context, id string) (model.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *fakeAdminStore) UpdatePassword(_ context.Context, id, newHash string) error {
	a, ok := s.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = newHash
	s.admins[id] = a
	return nil
}

func testAuthConfig() config.Config {
	return config.Config{JWTSecret: "secret", TokenTTLHrs: 24, BcryptCost: bcrypt.MinCost}
}

// seededAdmin stores admin-1 with the given password, matching the
// authenticated identity the request helper injects.
func seededAdmin(t *testing.T, password string) model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return model.Admin{ID: "admin-1", Email: "admin@school.test", PasswordHash: string(hash)}
}

func TestCreateAdmin(t *testing.T) {
	store := newFakeAdminStore()
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.CreateAdmin, http.MethodPost, "/api/auth/create-admin",
		`{"email":"new@school.test","password":"hunter22"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if m := decodeMap(t, rec); m["message"] != "Admin created successfully" {
		t.Fatalf("message = %v", m["message"])
	}
	a, ok := store.admins["admin-new"]
	if !ok {
		t.Fatal("admin not stored")
	}
	if a.PasswordHash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
}

func TestCreateAdminDuplicate(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.CreateAdmin, http.MethodPost, "/api/auth/create-admin",
		`{"email":"admin@school.test","password":"hunter22"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if m := decodeMap(t, rec); m["message"] != "Admin already exists" {
		t.Fatalf("message = %v", m["message"])
	}
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), newFakeAdminStore())
	rec := request(t, h.CreateAdmin, http.MethodPost, "/api/auth/create-admin",
		`{"email":"new@school.test","password":"abc"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"admin@school.test","password":"pw123456"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	m := decodeMap(t, rec)
	if tok, _ := m["token"].(string); tok == "" {
		t.Fatal("no token in response")
	}
	admin, _ := m["admin"].(map[string]any)
	if admin["email"] != "admin@school.test" {
		t.Fatalf("admin = %v", m["admin"])
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"admin@school.test","password":"wrong"}`},
		{"unknown email", `{"email":"ghost@school.test","password":"pw123456"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, h.Login, http.MethodPost, "/api/auth/login", tt.body, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if m := decodeMap(t, rec); m["message"] != "Invalid credentials" {
				t.Fatalf("message = %v", m["message"])
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.ChangePassword, http.MethodPut, "/api/auth/change-password",
		`{"currentPassword":"pw123456","newPassword":"pw654321"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	a := store.admins["admin-1"]
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("pw654321")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.ChangePassword, http.MethodPut, "/api/auth/change-password",
		`{"currentPassword":"nope1234","newPassword":"pw654321"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if m := decodeMap(t, rec); m["message"] != "Current password is incorrect" {
		t.Fatalf("message = %v", m["message"])
	}
}

func TestChangePasswordSameAsCurrent(t *testing.T) {
	store := newFakeAdminStore(seededAdmin(t, "pw123456"))
	h := NewAuthHandler(testAuthConfig(), store)

	rec := request(t, h.ChangePassword, http.MethodPut, "/api/auth/change-password",
		`{"currentPassword":"pw123456","newPassword":"pw123456"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if m := decodeMap(t, rec); m["message"] != "New password cannot be same as current password" {
		t.Fatalf("message = %v", m["message"])
	}
}
