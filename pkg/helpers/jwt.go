package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to exactly one flow. A token minted for one
// purpose is rejected when parsed under another, so an activation link can
// never double as a login token.
type Purpose string

const (
	PurposeActivate Purpose = "activate"
	PurposeReset    Purpose = "reset"
	PurposeSession  Purpose = "session"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// TokenManager signs and verifies purpose-scoped tokens with a single
// process-wide secret.
type TokenManager struct {
	Secret      []byte
	ActivateTTL time.Duration
	ResetTTL    time.Duration
	SessionTTL  time.Duration
}

func NewTokenManager(secret string, activateTTL, resetTTL, sessionTTL time.Duration) *TokenManager {
	return &TokenManager{
		Secret:      []byte(secret),
		ActivateTTL: activateTTL,
		ResetTTL:    resetTTL,
		SessionTTL:  sessionTTL,
	}
}

type Claims struct {
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (m *TokenManager) ttlFor(p Purpose) time.Duration {
	switch p {
	case PurposeActivate:
		return m.ActivateTTL
	case PurposeReset:
		return m.ResetTTL
	default:
		return m.SessionTTL
	}
}

// Issue mints a token for the given user and purpose using the purpose's TTL.
func (m *TokenManager) Issue(userID string, p Purpose) (string, time.Time, error) {
	exp := time.Now().Add(m.ttlFor(p))
	claims := &Claims{
		UserID:  userID,
		Purpose: string(p),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies signature and expiry and checks the token was minted for
// the expected purpose.
func (m *TokenManager) Parse(tokenStr string, want Purpose) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != string(want) {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}
