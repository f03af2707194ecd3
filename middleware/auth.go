package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Session keys
const (
	PlayerIDKey = "PlayerID"
	UsernameKey = "Username"
)

const tokenTTL = 7 * 24 * time.Hour

var ErrMissingToken = errors.New("missing authorization token")

// PlayerClaims identifies an anonymous player. The subject is the player id.
type PlayerClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("KEY")
	}
	return []byte(secret)
}

// GeneratePlayerToken signs a token for the player created through POST /users
func GeneratePlayerToken(playerID, username string) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParsePlayerToken validates a token, with or without the "Bearer " prefix
func ParsePlayerToken(tokenString string) (*PlayerClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &PlayerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// JWT_decoder reads the player from the Authorization header. It answers 401
// itself when the header is missing or invalid.
func JWT_decoder(c *gin.Context) (*PlayerClaims, error) {
	claims, err := ParsePlayerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return nil, err
	}
	return claims, nil
}

// Socketio_JWT_decoder reads the player from the socket.io handshake auth data
func Socketio_JWT_decoder(authData map[string]interface{}) (*PlayerClaims, error) {
	token, ok := authData["authorization"].(string)
	if !ok {
		return nil, ErrMissingToken
	}
	return ParsePlayerToken(token)
}

// AuthRequired accepts either the cookie session or a bearer token and
// stores the player id in the gin context.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	if id, ok := session.Get(PlayerIDKey).(string); ok && id != "" {
		c.Set(PlayerIDKey, id)
		c.Next()
		return
	}

	claims, err := ParsePlayerToken(c.GetHeader("Authorization"))
	if err != nil {
		// Abort the request with the appropriate error code
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(PlayerIDKey, claims.Subject)
	c.Next()
}
