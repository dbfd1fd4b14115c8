package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farelink_admin/internal/middleware"
)

// Me echoes the identity the admin's token carries. Login itself is handled by the
// FareLink API, which issues the token.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":    c.GetString(middleware.KeyUserID),
		"company_id": c.GetString(middleware.KeyCompanyID),
		"role":       c.GetString(middleware.KeyRole),
	})
}
