package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

const TokenTTL = 24 * time.Hour

// Identity is the authenticated caller carried in the request context.
type Identity struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret, issuer string) (*Tokens, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("JWT_SECRET")
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: TokenTTL, now: time.Now}, nil
}

// Issue signs a token for the identity. It returns the token and its expiry.
func (t *Tokens) Issue(id Identity) (string, time.Time, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":      id.UserID.String(),
		"username": id.Username,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	}
	if t.issuer != "" {
		claims["iss"] = t.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token. Expired tokens yield ExpiredToken, everything else
// that fails yields InvalidToken.
func (t *Tokens) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, errs.NewMissingTokenError()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Identity{}, errs.NewExpiredTokenError()
	}
	if err != nil || !parsed.Valid {
		return Identity{}, errs.NewInvalidTokenError()
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errs.NewInvalidTokenError()
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, errs.NewInvalidTokenError()
	}
	username, _ := claims["username"].(string)
	return Identity{UserID: userID, Username: username}, nil
}
