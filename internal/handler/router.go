package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medicare-api/internal/middleware"
	"medicare-api/internal/model"
)

// Router builds the gin engine with the full route table. Shared by main
// and the handler tests.
func Router(h *Handler, secret string, rl *middleware.RateLimiter, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimit(rl))
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(secret))
	{
		api.GET("/appointments", h.ListAppointments)
		api.POST("/appointments", h.CreateAppointment)
		api.GET("/appointments/upcoming", h.UpcomingAppointments)
		api.GET("/appointments/:id", h.GetAppointment)
		api.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		api.DELETE("/appointments/:id", h.DeleteAppointment)

		api.GET("/doctors", h.ListDoctors)
		api.GET("/doctors/:id/slots", h.AvailableSlots)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/stats", h.AdminStats)
			admin.GET("/users", h.AdminListUsers)
			admin.DELETE("/users/:id", h.AdminDeleteUser)
		}
	}

	return r
}
