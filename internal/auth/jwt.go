package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/iou/internal/models"
)

var (
	// ErrInvalidToken covers bad signatures, expired tokens and tokens that
	// name no party.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingToken is returned when a ledger call carries no bearer token.
	ErrMissingToken = errors.New("authorization token required")
	// ErrUnknownParty is returned when a token is requested for a phone
	// number nobody registered.
	ErrUnknownParty = errors.New("party not found")
)

// JWTManager signs and checks account API tokens with HMAC-SHA256.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// Claims is the payload of an account API token. PartyID and the standard
// subject both hold the party's E.164 phone number.
type Claims struct {
	PartyID string `json:"party_id"`
	jwt.RegisteredClaims
}

// NewJWTManager returns a manager whose tokens expire tokenDuration after
// they are issued.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate signs a token that lets party read its own balances.
func (m *JWTManager) Generate(party *models.Party) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		PartyID: party.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   party.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token for %s: %w", party.ID, err)
	}
	return signed, nil
}

// Validate checks the signature and lifetime of a token and returns its
// claims. Tokens signed with anything but HS256 are rejected.
func (m *JWTManager) Validate(signed string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(signed, claims,
		func(*jwt.Token) (any, error) { return m.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.PartyID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
