package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/catalog"
	"github.com/shuletech/udahili/core/user"
	dummydb "github.com/shuletech/udahili/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testEnv struct {
	server  Server
	usrRepo user.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	catalogSvc := catalog.NewService(dummydb.NewFeeTemplateRepository(db))
	admissionSvc := admission.NewService(dummydb.NewApplicationRepository(db), catalogSvc, nil, nopLogger{})

	conf := &core.Config{
		AppName:            "Udahili",
		TestMode:           true,
		SecretKey:          "secret",
		JWTExpirationDelta: 10 * time.Minute,
	}
	srv := NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         nopLogger{},
		AdmissionSvc:   admissionSvc,
		CatalogSvc:     catalogSvc,
		UserSvc:        user.NewService(usrRepo),
	})
	return &testEnv{server: srv, usrRepo: usrRepo}
}

// tokenFor creates a user with the given roles and returns a signed JWT.
func (env *testEnv) tokenFor(t *testing.T, uname string, roles ...string) string {
	t.Helper()

	usr := user.User{
		ID:       uname + "-id",
		Name:     uname,
		Username: uname,
		Email:    uname + "@shule.test",
		IsActive: true,
		Roles:    roles,
	}
	if _, err := env.usrRepo.CreateUser(context.Background(), usr); err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decodeApplication(t *testing.T, rec *httptest.ResponseRecorder) admission.PublicApplication {
	t.Helper()

	var app admission.PublicApplication
	if err := json.Unmarshal(rec.Body.Bytes(), &app); err != nil {
		t.Fatalf("decoding application response: %v\n%s", err, rec.Body.String())
	}
	return app
}

func intakePayload() map[string]interface{} {
	return map[string]interface{}{
		"student": map[string]interface{}{
			"first_name":     "Amani",
			"last_name":      "Mwangi",
			"date_of_birth":  "2014-03-12",
			"class_id":       "class-4",
			"guardian_name":  "Neema Mwangi",
			"guardian_phone": "+255700000001",
		},
		"facilities": map[string]interface{}{
			"hostel_needed": false,
			"bus_needed":    false,
		},
	}
}
