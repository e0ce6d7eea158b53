package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is what the POS frontend and the websocket gateway read out
// of a token.
type SessionClaims struct {
	UserID   string
	Username string
	Role     string
	TokenID  string
	Expiry   time.Time
}

// GenerateJWT issues a signed session token carrying the user's identity and
// role. The jti claim identifies the session for revocation.
func GenerateJWT(userID, username, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT validates the signature and expiry and extracts session claims.
func ParseJWT(tokenString string, secret []byte) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sc := &SessionClaims{}
	if sc.UserID, ok = claims["user_id"].(string); !ok {
		return nil, ErrInvalidToken
	}
	if sc.Role, ok = claims["role"].(string); !ok {
		return nil, ErrInvalidToken
	}
	sc.Username, _ = claims["username"].(string)
	sc.TokenID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		sc.Expiry = time.Unix(int64(exp), 0)
	}
	return sc, nil
}
