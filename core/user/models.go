package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazlaw/shule/core"
)

// Role is the closed set of portals a User may belong to.
// A User has exactly one Role, assigned at creation and immutable afterwards.
type Role string

const (
	RoleStudent    Role = "student"    // -> STUDENT PORTAL
	RoleTeacher    Role = "teacher"    // -> TEACHER PORTAL
	RoleAdmin      Role = "admin"      // -> ADMIN PORTAL
	RoleSuperAdmin Role = "superadmin" // -> SUPERADMIN PORTAL
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin}

	Roles = []RoleChoice{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Super Admin", Value: RoleSuperAdmin},
	}
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

type RoleChoice struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	Mobile       string    `json:"mobile,omitempty" db:"mobile"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login" db:"last_login"` // UTC
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

func (u *User) IsStudent() bool    { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool    { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// NewUser contains information needed to provision a new User.
// Admins provision students/teachers; superadmins provision admins.
type NewUser struct {
	Name          string `json:"name" validate:"required"`
	Username      string `json:"username" validate:"required,min=3"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile" validate:"omitempty,min=7"`
	Role          Role   `json:"role" validate:"required"`
	Secret        string `json:"secret" validate:"required,secret"`
	SecretConfirm string `json:"secret_confirm" validate:"required,eqfield=Secret"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Mobile = core.CleanString(nu.Mobile)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	if !nu.Role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}
	return nil
}

// NewAdmin contains information needed for admin self-registration.
// The role is fixed to admin; registration can never self-assign any other role.
type NewAdmin struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile" validate:"required,min=7"`
	Secret        string `json:"secret" validate:"required,secret"`
	SecretConfirm string `json:"secret_confirm" validate:"required,eqfield=Secret"`
}

func (na *NewAdmin) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Mobile = core.CleanString(na.Mobile)
	return validate.Struct(na)
}
