package utils // package utils provides helpers for session token creation and parsing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and validating signed tokens
	"github.com/google/uuid"       // uuid supplies the jti claim
)

// SessionToken is a signed HS256 JWT placed in the session cookie
// together with its expiry.  It is the only client-side state the
// application keeps.
type SessionToken struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the identity a parsed session cookie yields.  For
// admin sessions UserID is zero because the administrator has no user
// row behind it; Role alone authorizes admin operations.
type SessionClaims struct {
	UserID uint64
	Role   string
	Name   string
}

// ErrInvalidSession covers every way a session cookie can fail to
// parse: bad signature, wrong algorithm, expiry, or missing claims.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs a session JWT.  Claims: subject
// (sub), role, display name, expiration (exp), issued at (iat) and a
// unique token id (jti).
func NewSessionToken(secret string, userID uint64, role, name string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"name": name,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
		"jti":  uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Value: signed, Exp: exp}, nil
}

// ParseSessionToken validates raw against the signing secret and
// extracts the session claims.  Only HMAC-signed tokens are accepted;
// anything else is rejected as ErrInvalidSession.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSession
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidSession
	}
	var sc SessionClaims
	if sub, ok := mc["sub"].(float64); ok {
		sc.UserID = uint64(sub)
	}
	sc.Role, _ = mc["role"].(string)
	sc.Name, _ = mc["name"].(string)
	if sc.Role == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	return sc, nil
}
