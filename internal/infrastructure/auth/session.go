// Package auth verifies session tokens issued by the external identity provider.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/edusuite/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrMissingToken     = errors.New("missing session token")
	ErrInvalidToken     = errors.New("invalid session token")
	ErrExpiredToken     = errors.New("session has expired")
	ErrTokenNotYetValid = errors.New("session is not yet valid")
	ErrInvalidSubject   = errors.New("session subject is not a valid id")
)

// Metadata keys read from the provider's user_metadata claim
const (
	MetadataFirstName = "first_name"
	MetadataLastName  = "last_name"
	MetadataPhone     = "phone"
	MetadataRole      = "role"
)

// SessionClaims are the claims the identity provider puts in its access tokens
type SessionClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Session is a verified caller session.
type Session struct {
	Subject   uuid.UUID
	Email     string
	Metadata  map[string]any
	TokenID   string
	ExpiresAt time.Time
}

// MetadataString returns a trimmed string metadata value, or "" when absent or not a string.
func (s *Session) MetadataString(key string) string {
	if s == nil || s.Metadata == nil {
		return ""
	}
	v, ok := s.Metadata[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// SessionVerifier validates HS256 bearer tokens
type SessionVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// NewSessionVerifier creates a verifier from session configuration
func NewSessionVerifier(cfg config.SessionConfig) *SessionVerifier {
	return &SessionVerifier{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   cfg.Leeway,
	}
}

// Verify parses and validates a token and returns the session it carries.
func (v *SessionVerifier) Verify(tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil || subject == uuid.Nil {
		return nil, ErrInvalidSubject
	}

	session := &Session{
		Subject:  subject,
		Email:    claims.Email,
		Metadata: claims.UserMetadata,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Sign issues a token for claims with the verifier's secret. Local tooling and tests use it
// to stand in for the identity provider.
func (v *SessionVerifier) Sign(claims SessionClaims) (string, error) {
	if claims.Issuer == "" {
		claims.Issuer = v.issuer
	}
	if len(claims.Audience) == 0 && v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(v.secret)
}

// NewSessionClaims builds claims for subject valid for ttl from now.
func NewSessionClaims(subject uuid.UUID, email string, metadata map[string]any, ttl time.Duration) SessionClaims {
	now := time.Now()
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:        email,
		UserMetadata: metadata,
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
