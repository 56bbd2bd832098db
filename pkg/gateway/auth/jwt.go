package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Roles understood by the broadcaster API. Staff manage journal settings and
// may do everything an editor can.
const (
	RoleEditor = "editor"
	RoleStaff  = "staff"
)

type contextKey string

const claimsContextKey contextKey = "claims"

type JWTManager struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
	nowFunc    func() time.Time
}

func NewJWTManager(secret, issuer, audience string, ttl time.Duration) (*JWTManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTManager{
		signingKey: []byte(secret),
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
		nowFunc:    time.Now,
	}, nil
}

type Claims struct {
	jwt.StandardClaims
	Email   string `json:"email"`
	Role    string `json:"role"`
	Journal string `json:"journal,omitempty"`
}

// HasRole reports whether the claims grant role. Staff implies editor.
func (c *Claims) HasRole(role string) bool {
	if c.Role == role {
		return true
	}
	return c.Role == RoleStaff && role == RoleEditor
}

// CanAccessJournal is true for unscoped tokens and for the journal the token
// was issued for.
func (c *Claims) CanAccessJournal(code string) bool {
	return c.Journal == "" || c.Journal == code
}

// IssueToken signs an HS256 token for subject. journal optionally scopes the
// token to one journal code.
func (m *JWTManager) IssueToken(subject, email, role, journal string) (string, error) {
	if role != RoleEditor && role != RoleStaff {
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := m.nowFunc()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   subject,
			Audience:  m.audience,
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
		Email:   email,
		Role:    role,
		Journal: journal,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
}

func (m *JWTManager) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, errors.New("token empty")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	now := m.nowFunc().Unix()
	if !claims.VerifyIssuer(m.issuer, true) {
		return nil, errors.New("invalid issuer")
	}
	if !claims.VerifyAudience(m.audience, true) {
		return nil, errors.New("invalid audience")
	}
	if !claims.VerifyNotBefore(now, true) {
		return nil, errors.New("token not yet valid")
	}
	if !claims.VerifyExpiresAt(now, true) {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
