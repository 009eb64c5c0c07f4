package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalType distinguishes worker sessions from doctor sessions.
type PrincipalType string

const (
	PrincipalWorker PrincipalType = "worker"
	PrincipalDoctor PrincipalType = "doctor"
)

// Principal is the authenticated identity carried through request context.
// It replaces the original system's browser-session-stored identity.
type Principal struct {
	ID       uuid.UUID     `json:"id"`
	Type     PrincipalType `json:"type"`
	PublicID string        `json:"public_id"`
	Name     string        `json:"name"`
}

type JWTService interface {
	GenerateToken(p *Principal) (string, error)
	ValidateToken(token string) (*Principal, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) GenerateToken(p *Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       p.ID.String(),
		"typ":       string(p.Type),
		"public_id": p.PublicID,
		"name":      p.Name,
		"iat":       now.Unix(),
		"exp":       now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	typ, ok := claims["typ"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	p := &Principal{
		ID:   id,
		Type: PrincipalType(typ),
	}
	if pid, ok := claims["public_id"].(string); ok {
		p.PublicID = pid
	}
	if name, ok := claims["name"].(string); ok {
		p.Name = name
	}
	return p, nil
}
