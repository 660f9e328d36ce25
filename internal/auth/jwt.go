package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const purposeReset = "reset"

// ErrWrongPurpose is returned when a token minted for one flow is presented
// to another.
var ErrWrongPurpose = errors.New("token purpose mismatch")

// JWTManager issues and validates HS256 tokens: access tokens carrying the
// caller identity and single-purpose password reset tokens.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	resetTTL  time.Duration
	resetURL  string
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret, issuer string, accessTTL, resetTTL time.Duration, resetURL string) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		resetURL:  resetURL,
		now:       time.Now,
	}
}

type claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// GenerateAccessToken signs an access token for id.
func (m *JWTManager) GenerateAccessToken(id Identity) (string, error) {
	return m.sign(id, "", m.accessTTL)
}

// ValidateAccessToken parses and validates an access token.
func (m *JWTManager) ValidateAccessToken(token string) (Identity, error) {
	c, err := m.parse(token)
	if err != nil {
		return Identity{}, err
	}
	if c.Purpose != "" {
		return Identity{}, fmt.Errorf("access token: %w", ErrWrongPurpose)
	}
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}, nil
}

// GeneratePasswordResetToken signs a reset token for the given account.
func (m *JWTManager) GeneratePasswordResetToken(userID, email string) (string, error) {
	return m.sign(Identity{UserID: userID, Email: email}, purposeReset, m.resetTTL)
}

// ValidatePasswordResetToken parses a reset token and returns its subject.
func (m *JWTManager) ValidatePasswordResetToken(token string) (Identity, error) {
	c, err := m.parse(token)
	if err != nil {
		return Identity{}, err
	}
	if c.Purpose != purposeReset {
		return Identity{}, fmt.Errorf("reset token: %w", ErrWrongPurpose)
	}
	return Identity{UserID: c.Subject, Email: c.Email}, nil
}

// ResetLink returns the configured reset page URL with token as the
// "token" query parameter.
func (m *JWTManager) ResetLink(token string) string {
	sep := "?"
	if strings.Contains(m.resetURL, "?") {
		sep = "&"
	}
	return m.resetURL + sep + "token=" + url.QueryEscape(token)
}

func (m *JWTManager) sign(id Identity, purpose string, ttl time.Duration) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("sign token: empty subject")
	}
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:   id.Email,
		Role:    id.Role,
		Purpose: purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) parse(tokenString string) (*claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if c.Issuer != m.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, c.Issuer)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return c, nil
}

// HashToken computes the SHA-256 hash of a token and returns it as a hex
// string. Audit entries store the hash, never the token.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
