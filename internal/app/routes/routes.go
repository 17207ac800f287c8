package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/controllers"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/websocket"
)

// Controllers bundles every HTTP handler mounted by SetupRouter
type Controllers struct {
	Auth          *controllers.AuthController
	Profile       *controllers.ProfileController
	Team          *controllers.TeamController
	HourRequest   *controllers.HourRequestController
	DesignRequest *controllers.DesignRequestController
	Event         *controllers.EventController
	Gallery       *controllers.GalleryController
	Contact       *controllers.ContactController
	Health        *controllers.HealthController
	Notifications *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth(), authMiddleware.OptionalActor())
	{
		public.GET("/events", c.Event.List)
		public.GET("/events/:id", c.Event.Detail)
		public.GET("/gallery", c.Gallery.List)
		public.POST("/contact", c.Contact.Submit)
	}

	// --- Authenticated, profile optional ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)
		authenticated.POST("/auth/logout-all", c.Auth.LogoutAll)

		authenticated.GET("/profile", c.Profile.GetProfile)
		authenticated.POST("/profile", c.Profile.CreateProfile)
		authenticated.PUT("/profile", c.Profile.UpdateProfile)
		authenticated.POST("/profile/avatar", c.Profile.UploadAvatar)
	}

	// --- Authenticated with a resolved actor ---
	members := v1.Group("")
	members.Use(authMiddleware.JWTAuth(), authMiddleware.RequireActor())
	{
		members.POST("/profile/committee-application", c.Profile.ApplyForCommittee)
		members.GET("/members", c.Profile.ListMembers)
		members.PUT("/members/:id/role", c.Profile.UpdateClubRole)

		teams := members.Group("/teams")
		{
			teams.GET("", c.Team.ListTeams)
			teams.GET("/:id", c.Team.GetTeam)
			teams.POST("", c.Team.CreateTeam)
			teams.PUT("/:id/members/:userId", c.Team.SetMember)
			teams.DELETE("/:id/members/:userId", c.Team.RemoveMember)
		}

		hours := members.Group("/hour-requests")
		{
			hours.POST("", c.HourRequest.Submit)
			hours.GET("/mine", c.HourRequest.ListMine)
			hours.GET("/review", c.HourRequest.Dashboard)
			hours.POST("/:id/review", c.HourRequest.Review)
			hours.POST("/grants", c.HourRequest.Grant)
		}

		designs := members.Group("/design-requests")
		{
			designs.POST("", c.DesignRequest.Create)
			designs.GET("", c.DesignRequest.Queue)
			designs.GET("/mine", c.DesignRequest.ListMine)
			designs.POST("/:id/claim", c.DesignRequest.Claim)
			designs.POST("/:id/deliverable", c.DesignRequest.SubmitDeliverable)
			designs.POST("/:id/decision", c.DesignRequest.Decide)
		}

		events := members.Group("/events")
		{
			events.POST("", c.Event.Create)
			events.PUT("/:id", c.Event.Update)
			events.DELETE("/:id", c.Event.Delete)
			events.POST("/:id/check-in-code", c.Event.RegenerateCheckInCode)
			events.POST("/:id/registrations", c.Event.Register)
			events.POST("/:id/check-in", c.Event.CheckIn)
			events.GET("/:id/participants", c.Event.Participants)
			events.POST("/:id/report", c.Event.FileReport)
		}

		members.POST("/gallery", c.Gallery.Upload)
		members.DELETE("/gallery/:id", c.Gallery.Delete)

		members.GET("/contact-messages", c.Contact.List)
		members.POST("/contact-messages/:id/read", c.Contact.MarkRead)
	}

	// Websocket notifications accept the token as a query parameter
	router.GET("/ws/notifications", authMiddleware.JWTAuth(), c.Notifications.HandleConnection)
}
