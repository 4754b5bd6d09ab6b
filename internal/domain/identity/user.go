package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backend/internal/domain/shared"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account in the store
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Phone        string
	BirthDate    *time.Time
	PasswordHash string
	Roles        []Role // Stored in a separate table, loaded by the repository
}

// NewUser creates a new user with a hashed password and the client role
func NewUser(name, email, phone string, birthDate *time.Time, password string) (*User, error) {
	v := shared.NewValidationError()
	if strings.TrimSpace(name) == "" {
		v.Add("name", "name is required")
	}
	validateEmail(v, email)
	validatePassword(v, password)
	if birthDate != nil && birthDate.After(time.Now()) {
		v.Add("birthDate", "birth date must be in the past")
	}
	if v.HasErrors() {
		return nil, v
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Phone:             strings.TrimSpace(phone),
		BirthDate:         birthDate,
		PasswordHash:      passwordHash,
		Roles:             []Role{RoleClient},
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// AssignRole grants a role, ignoring duplicates
func (u *User) AssignRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	for _, r := range u.Roles {
		if r == role {
			return nil
		}
	}
	u.Roles = append(u.Roles, role)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal returns the authorization view of this user
func (u *User) Principal() Principal {
	return Principal{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.Roles,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validatePassword(v *shared.ValidationError, password string) {
	if password == "" {
		v.Add("password", "password is required")
		return
	}
	if len(password) < 8 {
		v.Add("password", "password must be at least 8 characters")
	}
	if len(password) > 128 {
		v.Add("password", "password cannot exceed 128 characters")
	}
}

func validateEmail(v *shared.ValidationError, email string) {
	if email == "" {
		v.Add("email", "email is required")
		return
	}
	if len(email) > 200 {
		v.Add("email", "email cannot exceed 200 characters")
		return
	}
	if !emailRegex.MatchString(email) {
		v.Add("email", "invalid email format")
	}
}
