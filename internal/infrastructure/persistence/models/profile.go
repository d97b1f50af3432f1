package models

import (
	"time"

	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// ProfileModel is the persistence model for identity.Profile.
// Its ID is the identity provider's subject, so no default is generated.
type ProfileModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FirstName  string    `gorm:"type:varchar(100)"`
	MiddleName string    `gorm:"type:varchar(100)"`
	LastName   string    `gorm:"type:varchar(100)"`
	Email      string    `gorm:"type:varchar(255);index"`
	Phone      string    `gorm:"type:varchar(50)"`
	Role       string    `gorm:"type:varchar(50);not null;default:'student'"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		ID:         m.ID,
		FirstName:  m.FirstName,
		MiddleName: m.MiddleName,
		LastName:   m.LastName,
		Email:      m.Email,
		Phone:      m.Phone,
		Role:       identity.Role(m.Role),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.ID = p.ID
	m.FirstName = p.FirstName
	m.MiddleName = p.MiddleName
	m.LastName = p.LastName
	m.Email = p.Email
	m.Phone = p.Phone
	m.Role = string(p.Role)
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
