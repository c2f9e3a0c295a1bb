package user

import (
	"reflect"
	"testing"
)

func TestRolePriorities(t *testing.T) {
	if p, d := RolePriority(RolePrincipal), RolePriority(RoleDeptAccounts); p <= d {
		t.Errorf("principal priority %d should outrank department priority %d", p, d)
	}
	if h, o := RolePriority(RoleAdmissionHead), RolePriority(RoleAdmissionOfficer); h <= o {
		t.Errorf("admission head priority %d should outrank officer priority %d", h, o)
	}
	if RolePriority("bogus:role") != 0 {
		t.Error("unknown roles must have zero priority")
	}

	roles := []string{RoleDeptHostel, RoleAdmissionOfficer, RolePrincipal}
	if got := MaxRolePriority(roles); got != RolePriority(RolePrincipal) {
		t.Errorf("MaxRolePriority() = %d, want the principal's", got)
	}
}

func TestUserRoleChecks(t *testing.T) {
	usr := User{Roles: []string{RoleDeptAccounts, RoleDeptHostel}}

	if !usr.IsDepartmentStaff() {
		t.Error("IsDepartmentStaff() = false")
	}
	if usr.IsPrincipal() || usr.IsAdmissionOffice() || usr.IsFeeOffice() {
		t.Error("department staff must not match other offices")
	}
	if got, want := usr.DepartmentKeys(), []string{"accounts", "hostel"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DepartmentKeys() = %v, want %v", got, want)
	}

	head := User{Roles: []string{RoleAdmissionHead}}
	if !head.IsAdmissionOffice() {
		t.Error("IsAdmissionOffice() = false for admission head")
	}
	if head.DepartmentKeys() != nil {
		t.Error("DepartmentKeys() should be empty for office staff")
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cr3tpwd"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	if usr.CheckPassword("s3cr3tpwd") != nil {
		t.Error("CheckPassword() rejected the correct password")
	}
	if usr.CheckPassword("wrong") == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
