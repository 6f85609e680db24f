// file: routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JuanSign/iecom-itb/controllers"
	"github.com/JuanSign/iecom-itb/middlewares"
	"github.com/JuanSign/iecom-itb/services"
)

func SetupRouter(auth *controllers.AuthController, competitions *controllers.CompetitionController, sessions *services.SessionService) *gin.Engine {
	r := gin.Default()

	// Page-path guard; /api enforces its own auth below.
	r.Use(middlewares.RouteGuard(sessions))

	apiV1 := r.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", auth.Register)
			authRoutes.POST("/login", auth.Login)
			authRoutes.POST("/logout", auth.Logout)
		}

		apiV1.GET("/dashboard", middlewares.SessionRequired(sessions), auth.Dashboard)

		competitionRoutes := apiV1.Group("/competitions/:family")
		competitionRoutes.Use(middlewares.SessionRequired(sessions))
		{
			competitionRoutes.POST("/teams", competitions.CreateTeam)
			competitionRoutes.POST("/teams/join", competitions.JoinTeam)
			competitionRoutes.POST("/teams/leave", competitions.LeaveTeam)
			competitionRoutes.GET("/team", competitions.TeamPage)
			competitionRoutes.PUT("/team/member", competitions.UpdateMember)
			competitionRoutes.PUT("/team/documents", competitions.UploadDocuments)
			competitionRoutes.PUT("/team/billing", competitions.UpdateBilling)
		}
	}

	return r
}
