package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/middleware"
	"go.uber.org/zap"
)

// Router bundles what RegisterRoutes needs.
type Router struct {
	Auth      *AuthHandler
	Units     *UnitHandler
	Positions *PositionHandler
	Persons   *PersonHandler
	Stats     *StatsHandler
	Verifier  middleware.TokenVerifier
	Logger    *zap.Logger
}

// RegisterRoutes mounts the /api routes on r.
func (rt Router) RegisterRoutes(r gin.IRouter) {
	requireAuth := middleware.RequireAuth(rt.Verifier, rt.Logger)
	requireID := middleware.RequireIDParam()

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/login", rt.Auth.Login)
		api.POST("/units", rt.Units.CreateUnit)

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/logout", rt.Auth.Logout)
			protected.GET("/me", rt.Auth.GetCurrentPrincipal)

			protected.GET("/units", rt.Units.ListUnits)
			protected.GET("/units/:id", requireID, rt.Units.GetUnit)
			protected.PUT("/units/:id", requireID, rt.Units.UpdateUnit)
			protected.DELETE("/units/:id", requireID, rt.Units.DeleteUnit)

			protected.POST("/positions", rt.Positions.CreatePosition)
			protected.GET("/positions", rt.Positions.ListPositions)
			protected.GET("/positions/:id", requireID, rt.Positions.GetPosition)
			protected.PUT("/positions/:id", requireID, rt.Positions.UpdatePosition)
			protected.DELETE("/positions/:id", requireID, rt.Positions.DeletePosition)

			protected.POST("/persons", rt.Persons.CreatePerson)
			protected.GET("/persons", rt.Persons.ListPersons)
			protected.GET("/persons/:id", requireID, rt.Persons.GetPerson)
			protected.PUT("/persons/:id", requireID, rt.Persons.UpdatePerson)
			protected.DELETE("/persons/:id", requireID, rt.Persons.DeletePerson)
			protected.PUT("/persons/:id/positions", requireID, rt.Persons.ReplacePositions)

			protected.GET("/stats", rt.Stats.GetStats)
		}
	}
}
