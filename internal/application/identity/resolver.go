// Package identity resolves verified sessions into callers with a single role.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/auth"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resolver maps a verified session to the caller's identity, provisioning a profile on
// first sign-in.
type Resolver struct {
	profiles identity.ProfileRepository
	logger   *zap.Logger
}

// NewResolver creates a new resolver
func NewResolver(profiles identity.ProfileRepository, logger *zap.Logger) *Resolver {
	return &Resolver{
		profiles: profiles,
		logger:   logger,
	}
}

// Resolve returns the caller behind session.
// A missing profile is created with insert-if-absent and read back, so concurrent first
// requests of the same subject converge on one row.
func (r *Resolver) Resolve(ctx context.Context, session *auth.Session) (*identity.Identity, error) {
	if session == nil {
		return nil, shared.ErrUnauthenticated
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "resolve")
	defer span.End()

	profile, err := r.profiles.FindByID(ctx, session.Subject)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile != nil {
		telemetry.SetAttributes(span, telemetry.AttrCallerRole, profile.Role.String())
		return profile.Identity(), nil
	}

	draft, err := r.draftProfile(session)
	if err != nil {
		return nil, err
	}
	if err := r.profiles.CreateIfAbsent(ctx, draft); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("provision profile: %w", err)
	}

	profile, err = r.profiles.FindByID(ctx, session.Subject)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile %s missing after provisioning", session.Subject)
	}

	logger.Enrich(ctx, r.logger).Info("identity.profile_provisioned",
		zap.String("profile_id", profile.ID.String()),
		zap.String("role", profile.Role.String()))
	telemetry.SetAttributes(span, telemetry.AttrCallerRole, profile.Role.String())
	return profile.Identity(), nil
}

// draftProfile builds the default profile from session metadata.
// The role hint is honoured only when it names a known role.
func (r *Resolver) draftProfile(session *auth.Session) (*identity.Profile, error) {
	role := identity.DefaultRole
	if hint, ok := identity.ParseRole(strings.ToLower(session.MetadataString(auth.MetadataRole))); ok {
		role = hint
	}

	// cases.Caser is stateful; one per call
	title := cases.Title(language.Und)
	profile, err := identity.NewProfile(
		session.Subject,
		session.Email,
		title.String(session.MetadataString(auth.MetadataFirstName)),
		title.String(session.MetadataString(auth.MetadataLastName)),
		role,
	)
	if err != nil {
		return nil, err
	}
	profile.Phone = session.MetadataString(auth.MetadataPhone)
	return profile, nil
}
