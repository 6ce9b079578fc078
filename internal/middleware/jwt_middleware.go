package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/utils"
)

// AdminSubjectKey is the gin context key holding the verified token subject.
const AdminSubjectKey = "admin_subject"

// JWTMiddleware guards admin routes with HS256 bearer tokens.
type JWTMiddleware struct {
	secret      string
	rateLimiter *InvalidAuthRateLimiter
}

func NewJWTMiddleware(secret string) *JWTMiddleware {
	return &JWTMiddleware{
		secret:      secret,
		rateLimiter: NewInvalidAuthRateLimiter(defaultInvalidAttempts, defaultInvalidWindow),
	}
}

// Handle reads the token from the Authorization header.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}
		m.verify(c, parts[1])
	}
}

// HandleQuery reads the token from the "token" query parameter, for clients
// such as EventSource that cannot set headers.
func (m *JWTMiddleware) HandleQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			m.reject(c, "UNAUTHORIZED", "Missing token")
			return
		}
		m.verify(c, token)
	}
}

func (m *JWTMiddleware) verify(c *gin.Context, token string) {
	claims, err := utils.ValidateJWT(m.secret, token)
	if err != nil {
		m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	c.Set(AdminSubjectKey, claims.Subject)
	c.Next()
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, http.StatusUnauthorized, code, message)
	c.Abort()
}
