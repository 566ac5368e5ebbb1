package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bitwise74/goals-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 15 * time.Minute

// TokenError is the only error DecodeToken returns. Status is the HTTP
// status the failure maps to: 401 for an expired token, 500 for anything
// else.
type TokenError struct {
	Status  int
	Message string
	Err     error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Claims is the access token payload. The subject is the whole identity
// rather than a plain user id.
type Claims struct {
	Subject   model.Identity   `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error) { return "", nil }
func (c Claims) GetSubject() (string, error) { return c.Subject.UserID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, used by tests to move past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

func (s *TokenService) CreateToken(id model.Identity) (string, error) {
	now := s.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	return t.SignedString(s.secret)
}

// DecodeToken verifies the token and returns the identity it carries. The
// returned error is always a *TokenError.
func (s *TokenService) DecodeToken(token string) (model.Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, &TokenError{Status: http.StatusUnauthorized, Message: "Token expired", Err: err}
		}

		return model.Identity{}, &TokenError{Status: http.StatusInternalServerError, Message: "Invalid token", Err: err}
	}

	if claims.Subject.UserID == "" {
		return model.Identity{}, &TokenError{
			Status:  http.StatusInternalServerError,
			Message: "Invalid token",
			Err:     errors.New("token subject has no user id"),
		}
	}

	return claims.Subject, nil
}
