package identity

import (
	"strings"
	"time"

	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Profile is the person record behind every signed-in user.
// Its ID equals the identity provider's subject.
type Profile struct {
	ID         uuid.UUID
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Phone      string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProfile creates a profile for subject; an invalid role falls back to DefaultRole.
func NewProfile(subject uuid.UUID, email, firstName, lastName string, role Role) (*Profile, error) {
	if subject == uuid.Nil {
		return nil, shared.NewInvalidInput("Profile subject cannot be empty")
	}
	if !role.IsValid() {
		role = DefaultRole
	}
	now := time.Now()
	return &Profile{
		ID:        subject,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FullName joins the non-empty name parts.
func (p *Profile) FullName() string {
	return JoinName(p.FirstName, p.MiddleName, p.LastName)
}

// Identity returns the resolved caller view of the profile.
func (p *Profile) Identity() *Identity {
	display := p.FullName()
	if display == "" {
		display = p.Email
	}
	return &Identity{
		ProfileID:   p.ID,
		Email:       p.Email,
		DisplayName: display,
		Role:        p.Role,
	}
}

// Identity is the resolved caller of a request.
type Identity struct {
	ProfileID   uuid.UUID
	Email       string
	DisplayName string
	Role        Role
}

// Permissions returns the caller's permission set.
func (i *Identity) Permissions() PermissionSet {
	return PermissionsFor(i.Role)
}

// JoinName joins the non-blank parts with single spaces.
func JoinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
