package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"farelink_admin/internal/audit"
	"farelink_admin/internal/controllers"
	"farelink_admin/internal/drafts"
	"farelink_admin/internal/farelink"
	"farelink_admin/internal/logger"
	"farelink_admin/internal/middleware"
)

// Deps is everything the HTTP surface needs; main wires it from config.
type Deps struct {
	JWTSecret []byte
	API       *farelink.Client
	Drafts    drafts.Store
	Audit     audit.Logger
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logger.Writer()),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
	))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(r, middleware.RequireAuth(deps.JWTSecret))

	admin := middleware.RequireAuthWithRole(deps.JWTSecret, "admin")
	FleetRoutes(r, controllers.NewFleetController(deps.API, deps.Audit), admin)
	BuilderRoutes(r, controllers.NewRouteBuilderController(deps.API, deps.Drafts, deps.Audit), admin)

	return r
}
