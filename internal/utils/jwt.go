package utils // package utils provides helper functions for session tokens and hashing

import (
    "errors" // sentinel errors for token parsing failures
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed HS256 JWT session along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Sessions are long-lived (7 days in deployments)
// and travel in an httpOnly cookie rather than an Authorization header,
// because the only client is a browser SPA.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims carried by a parsed session token.  ID is the principal's database
// id; Role is "user" or "admin".  The role is both baked into the claims and
// implied by which secret verified the token — resident and admin sessions
// are signed with different secrets.
type SessionClaims struct {
    ID   uint64 // principal's database id (the "sub" claim)
    Role string // "user" or "admin" (the "role" claim)
}

// ErrInvalidSession is returned for malformed, tampered or expired tokens.
var ErrInvalidSession = errors.New("invalid or expired session token")

// NewSessionToken builds and signs an HS256 JWT for a principal.  It takes
// the signing secret, the principal's ID, the role, and a TTL in days.  The
// JWT includes standard claims: subject (sub), role, expiration (exp) and
// issued at (iat).
func NewSessionToken(secret string, id uint64, role string, ttlDays int) (SessionToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    // Construct the JWT claims.  MapClaims allows arbitrary key/value pairs.
    claims := jwt.MapClaims{
        "sub":  id,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    // Sign the token with the provided secret and obtain the string form.
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies a raw token string against the given secret and
// returns its claims.  Verification enforces the HMAC signing method, the
// signature and the expiry; any failure is reported as ErrInvalidSession so
// callers never leak parser internals to clients.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSession
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return SessionClaims{}, ErrInvalidSession
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return SessionClaims{}, ErrInvalidSession
    }
    // Numeric JWT claims decode as float64.
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return SessionClaims{}, ErrInvalidSession
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return SessionClaims{}, ErrInvalidSession
    }
    return SessionClaims{ID: uint64(sub), Role: role}, nil
}
