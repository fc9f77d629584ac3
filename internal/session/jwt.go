// Package session resolves the acting identity from a bearer token.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"feedreader/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Resolver supplies the identity for an inbound request. It returns nil and
// no error when the request carries no credentials.
type Resolver interface {
	Resolve(r *http.Request) (*domain.Identity, error)
}

var _ Resolver = (*JWTResolver)(nil)

// Claims is the token payload. Subject holds the numeric user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HS256 tokens signed with a shared secret.
type JWTResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// ResolverOption configures a JWTResolver.
type ResolverOption func(*JWTResolver)

// WithIssuer requires tokens to carry iss.
func WithIssuer(iss string) ResolverOption {
	return func(r *JWTResolver) { r.issuer = iss }
}

// WithClock overrides the time used for expiry checks.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *JWTResolver) { r.now = now }
}

func NewJWTResolver(secret string, opts ...ResolverOption) *JWTResolver {
	r := &JWTResolver{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the identity carried by the Authorization header. A request
// without the header resolves to nil and no error.
func (r *JWTResolver) Resolve(req *http.Request) (*domain.Identity, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return nil, nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return r.Parse(strings.TrimSpace(token))
}

// Parse verifies token and returns its identity.
func (r *JWTResolver) Parse(token string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	role := domain.UserRoleUser
	if claims.Role == string(domain.UserRoleAdmin) {
		role = domain.UserRoleAdmin
	}
	return &domain.Identity{UserID: id, Role: role}, nil
}

// SignToken issues an HS256 token for identity valid for ttl.
func SignToken(secret, issuer string, identity domain.Identity, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
