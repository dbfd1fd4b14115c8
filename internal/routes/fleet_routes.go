package routes

import (
	"farelink_admin/internal/controllers"

	"github.com/gin-gonic/gin"
)

func FleetRoutes(r *gin.Engine, fc *controllers.FleetController, auth gin.HandlerFunc) {
	fleet := r.Group("/")
	fleet.Use(auth)
	{
		fleet.GET("/buses", fc.ListBuses)
		fleet.GET("/currencies", fc.ListCurrencies)
		fleet.GET("/routes", fc.ListRoutes)
		fleet.DELETE("/routes/:id", fc.DeleteRoute)
		fleet.GET("/audit", fc.ListAudit)
	}
}
