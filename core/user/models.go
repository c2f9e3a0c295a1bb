package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shuletech/udahili/core"
)

// Roles map staff to the workflow commands they may run.
const (
	// Admission office
	RoleAdmission        = "admission:"
	RoleAdmissionOfficer = "admission:officer"
	RoleAdmissionHead    = "admission:head"

	// Fee office
	RoleFee        = "fee:"
	RoleFeeOfficer = "fee:officer"

	// Principal
	RolePrincipal = "principal:"

	// Operational departments
	RoleDepartment    = "department:"
	RoleDeptAccounts  = "department:accounts"
	RoleDeptInventory = "department:inventory"
	RoleDeptHostel    = "department:hostel"
	RoleDeptTransport = "department:transport"
)

var (
	AdmissionRoles  = []string{RoleAdmission, RoleAdmissionOfficer, RoleAdmissionHead}
	FeeRoles        = []string{RoleFee, RoleFeeOfficer}
	PrincipalRoles  = []string{RolePrincipal}
	DepartmentRoles = []string{RoleDepartment, RoleDeptAccounts, RoleDeptInventory, RoleDeptHostel, RoleDeptTransport}
	AllRoles        = getAllRoles()

	rolePriorities = map[string]int{
		// Principal: 30
		RolePrincipal: 30,

		// Offices: 29 - 21
		RoleAdmissionHead:    25,
		RoleAdmissionOfficer: 22,
		RoleAdmission:        21,
		RoleFeeOfficer:       22,
		RoleFee:              21,

		// Departments: 10 - 1
		RoleDeptAccounts:  10,
		RoleDeptInventory: 10,
		RoleDeptHostel:    10,
		RoleDeptTransport: 10,
		RoleDepartment:    1,
	}

	Roles = []Role{
		{Name: "Admission Officer", Value: RoleAdmissionOfficer},
		{Name: "Admission Head", Value: RoleAdmissionHead},
		{Name: "Fee Officer", Value: RoleFeeOfficer},
		{Name: "Principal", Value: RolePrincipal},
		{Name: "Accounts Department", Value: RoleDeptAccounts},
		{Name: "Inventory Department", Value: RoleDeptInventory},
		{Name: "Hostel Department", Value: RoleDeptHostel},
		{Name: "Transport Department", Value: RoleDeptTransport},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 10)
	all = append(all, AdmissionRoles...)
	all = append(all, FeeRoles...)
	all = append(all, PrincipalRoles...)
	all = append(all, DepartmentRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmissionOffice() bool {
	return u.RoleStartsWith(RoleAdmission)
}

func (u *User) IsFeeOffice() bool {
	return u.RoleStartsWith(RoleFee)
}

func (u *User) IsPrincipal() bool {
	return u.RoleStartsWith(RolePrincipal)
}

func (u *User) IsDepartmentStaff() bool {
	return u.RoleStartsWith(RoleDepartment)
}

// DepartmentKeys lists the department keys this user may clear.
func (u *User) DepartmentKeys() []string {
	var keys []string
	for _, role := range u.Roles {
		if strings.HasPrefix(role, RoleDepartment) && role != RoleDepartment {
			keys = append(keys, strings.TrimPrefix(role, RoleDepartment))
		}
	}
	return keys
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username, nu.Email)
}
