package routes

import (
	"farelink_admin/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	session := r.Group("/auth")
	session.Use(auth)
	{
		session.GET("/me", controllers.Me)
	}
}
