package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(100);not null"`
	Email        string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string          `gorm:"type:varchar(30)"`
	BirthDate    *time.Time      `gorm:"type:date"`
	PasswordHash string          `gorm:"type:varchar(100);not null"`
	Roles        []UserRoleModel `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		BirthDate:         m.BirthDate,
		PasswordHash:      m.PasswordHash,
		Roles:             make([]identity.Role, len(m.Roles)),
	}
	for i, r := range m.Roles {
		user.Roles[i] = identity.Role(r.Role)
	}
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.Phone = u.Phone
	m.BirthDate = u.BirthDate
	m.PasswordHash = u.PasswordHash
	m.Roles = make([]UserRoleModel, len(u.Roles))
	for i, r := range u.Roles {
		m.Roles[i] = UserRoleModel{UserID: u.ID, Role: string(r)}
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for a role grant.
type UserRoleModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primary_key"`
	Role   string    `gorm:"type:varchar(30);primary_key"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}
