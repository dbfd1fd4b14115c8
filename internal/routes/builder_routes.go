package routes

import (
	"farelink_admin/internal/controllers"

	"github.com/gin-gonic/gin"
)

func BuilderRoutes(r *gin.Engine, rc *controllers.RouteBuilderController, auth gin.HandlerFunc) {
	builder := r.Group("/builder")
	builder.Use(auth)
	{
		builder.POST("/drafts", rc.CreateDraft)
		builder.POST("/routes/:id/edit", rc.EditRoute)

		builder.GET("/drafts/:draftId", rc.GetDraft)
		builder.PATCH("/drafts/:draftId", rc.UpdateDraft)
		builder.DELETE("/drafts/:draftId", rc.DiscardDraft)

		builder.POST("/drafts/:draftId/stations", rc.AddStation)
		builder.PUT("/drafts/:draftId/stations/:stationId/location", rc.LocateStation)
		builder.DELETE("/drafts/:draftId/stations/:stationId", rc.RemoveStation)

		builder.POST("/drafts/:draftId/subroutes", rc.GenerateSubRoutes)
		builder.PUT("/drafts/:draftId/subroutes/:index/fare", rc.SetFare)

		builder.GET("/drafts/:draftId/geometry", rc.Geometry)
		builder.POST("/drafts/:draftId/save", rc.Save)
	}
}
