package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth
const (
	KeyUserID    = "user_id"
	KeyCompanyID = "company_id"
	KeyRole      = "role"
	KeyToken     = "token"
)

// GenerateToken issues an HS256 admin token. The FareLink API issues the same shape.
func GenerateToken(secret []byte, userID, companyID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"exp":        time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// RequireAuth ensures a valid JWT is present and carries a company.
// The raw token is kept so calls to the FareLink API can forward it.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, secret) {
			c.Next()
		}
	}
}

// RequireAuthWithRole ensures the JWT is valid and the user has a specific role
func RequireAuthWithRole(secret []byte, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		if c.GetString(KeyRole) != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// authenticate parses the bearer token into the context, or aborts and reports false.
func authenticate(c *gin.Context, secret []byte) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}
	companyID := claimString(claims["company_id"])
	if companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no company"})
		return false
	}

	c.Set(KeyUserID, claimString(claims["user_id"]))
	c.Set(KeyCompanyID, companyID)
	c.Set(KeyRole, claimString(claims["role"]))
	c.Set(KeyToken, tokenString)
	return true
}

// claimString reads string or numeric claims; JSON numbers arrive as float64.
func claimString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
