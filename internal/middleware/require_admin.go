package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin verifica que el usuario tenga rol "admin"
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acceso reservado a administradores"})
		c.Abort()
		return
	}
	c.Next()
}
