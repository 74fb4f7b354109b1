package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"listaai/pkg/utils"
)

func JWTAuthMiddleware(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// SameUserMiddleware rejects requests whose path parameter does not match the
// authenticated user id. Must run after JWTAuthMiddleware.
func SameUserMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != c.GetString("user_id") {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: you do not own this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}
