package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/visualmate/visualmate/backend/admin-service/internal/config"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid access token")

// GenerateAccessToken creates a signed JWT access token for the profile. The
// role claim carries the raw stored role; callers normalize through the
// guard package before comparing.
func GenerateAccessToken(cfg *config.Config, p *models.Profile, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.UID,
		"name":  p.FullName,
		"email": p.Email,
		"role":  p.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// Claims of a verified access token.
type Claims struct {
	UID   string
	Name  string
	Email string
	Role  string
}

// VerifyAccessToken parses and validates the signature and expiry of an
// access token and returns its claims.
func VerifyAccessToken(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	c := &Claims{}
	c.UID, _ = mc["sub"].(string)
	c.Name, _ = mc["name"].(string)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	if c.UID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
