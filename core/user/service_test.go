package user_test

import (
	"context"
	"testing"

	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/user"
	dummydb "github.com/shuletech/udahili/storage/database/dummy"
)

func newTestService(t *testing.T) *user.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}
	return user.NewService(dummydb.NewUserRepository(db))
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	nu := user.NewUser{
		Name:            "Asha Bakari",
		Username:        "asha_bakari",
		Email:           "asha@shule.test",
		Password:        "s3cr3tpwd",
		PasswordConfirm: "s3cr3tpwd",
		Roles:           []string{user.RoleAdmissionOfficer},
	}
	if err := nu.Validate(svc); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	created, err := svc.Create(ctx, nu)
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if created.ID == "" || !created.IsActive {
		t.Errorf("Create() = %+v, want an active user with an ID", created)
	}
	if created.CheckPassword("s3cr3tpwd") != nil {
		t.Error("Create() did not hash the password")
	}

	byUname, err := svc.GetByUsernameOrEmail(ctx, "Asha_Bakari")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail(username): %v", err)
	}
	if byUname.ID != created.ID {
		t.Error("username lookup returned a different user")
	}
	byEmail, err := svc.GetByUsernameOrEmail(ctx, "ASHA@shule.test")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail(email): %v", err)
	}
	if byEmail.ID != created.ID {
		t.Error("email lookup returned a different user")
	}

	if _, err = svc.GetByID(ctx, "missing"); err != user.ErrNotFound {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNewUserValidation(t *testing.T) {
	svc := newTestService(t)

	valid := func() user.NewUser {
		return user.NewUser{
			Name:            "Asha Bakari",
			Username:        "asha_bakari",
			Email:           "asha@shule.test",
			Password:        "s3cr3tpwd",
			PasswordConfirm: "s3cr3tpwd",
			Roles:           []string{user.RoleAdmissionOfficer},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*user.NewUser)
		wantErr bool
	}{
		{"valid", func(nu *user.NewUser) {}, false},
		{"email only", func(nu *user.NewUser) { nu.Username = "" }, false},
		{"password mismatch", func(nu *user.NewUser) { nu.PasswordConfirm = "different" }, true},
		{"short password", func(nu *user.NewUser) { nu.Password = "short"; nu.PasswordConfirm = "short" }, true},
		{"bad email", func(nu *user.NewUser) { nu.Email = "not-an-email" }, true},
		{"unknown role", func(nu *user.NewUser) { nu.Roles = []string{"janitor:"} }, true},
		{"missing name", func(nu *user.NewUser) { nu.Name = " " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.mutate(&nu)
			err := nu.Validate(svc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	nu := user.NewUser{
		Name:            "Asha Bakari",
		Username:        "asha_bakari",
		Email:           "asha@shule.test",
		Password:        "s3cr3tpwd",
		PasswordConfirm: "s3cr3tpwd",
	}
	if _, err := svc.Create(ctx, nu); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	dup := nu
	dup.Email = "other@shule.test"
	err := dup.Validate(svc)
	if err == nil {
		t.Fatal("Validate() accepted a duplicate username")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Validate() error = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "username" {
		t.Errorf("Validate() fields = %+v, want username", vErr.Fields)
	}

	dup = nu
	dup.Username = "someone_else"
	if err = dup.Validate(svc); err == nil {
		t.Fatal("Validate() accepted a duplicate email")
	}
}
