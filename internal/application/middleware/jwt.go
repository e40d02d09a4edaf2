package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rotinafit/entitlement-api/internal/infrastructure/logging"
)

// ContextUserID is the gin context key carrying the authenticated subject.
const ContextUserID = "user_id"

// Claims is the token payload minted by the identity service.
type Claims struct {
	UserID string `json:"sub"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates bearer tokens and checks the revocation blocklist.
type JWTMiddleware struct {
	secret          []byte
	issuer          string
	redis           *redis.Client
	blocklistPrefix string
	logger          *zap.Logger
}

// NewJWTMiddleware creates a new JWT middleware
func NewJWTMiddleware(secret, issuer string, redisClient *redis.Client) *JWTMiddleware {
	return &JWTMiddleware{
		secret:          []byte(secret),
		issuer:          issuer,
		redis:           redisClient,
		blocklistPrefix: "jwt:blocked:",
		logger:          logging.Logger,
	}
}

// Authenticate validates the bearer token and sets the subject on the
// request context. Blocklist lookups fail closed.
func (j *JWTMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthenticated(c, "invalid authorization header format")
			return
		}

		claims, err := j.ParseToken(parts[1])
		if err != nil {
			abortUnauthenticated(c, "invalid token")
			return
		}

		ctx := c.Request.Context()
		blocked, err := j.redis.Get(ctx, j.blocklistPrefix+claims.JTI).Result()
		if err != nil && err != redis.Nil {
			j.logger.Error("failed to check token blocklist", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"code":    "unavailable",
				"message": "token validation unavailable",
			})
			c.Abort()
			return
		}
		if blocked != "" {
			abortUnauthenticated(c, "token has been revoked")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// ParseToken parses and validates a token string without the blocklist check.
func (j *JWTMiddleware) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateToken mints a token for the given subject. The identity service
// owns issuance in production; this exists for tooling and tests.
func (j *JWTMiddleware) GenerateToken(userID string, ttl time.Duration) (string, string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		JTI:    jti,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", "", err
	}
	return tokenString, jti, nil
}

// RevokeToken adds a token to the blocklist for its remaining lifetime.
func (j *JWTMiddleware) RevokeToken(ctx context.Context, jti string, remainingTTL time.Duration) error {
	return j.redis.Set(ctx, j.blocklistPrefix+jti, "1", remainingTTL).Err()
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    "unauthenticated",
		"message": message,
	})
	c.Abort()
}
