package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Appeals   *AppealHandler
	CheckIn   *CheckInHandler
	Stats     *StatsHandler
	Ops       *OpsHandler
}

// RegisterRoutes mounts ops endpoints at the root and the API under prefix.
// requireSession guards everything except login.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, requireSession gin.HandlerFunc) {
	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	r.GET("/metrics", h.Ops.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(requireSession)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/dashboard", h.Dashboard.Shell)
	secured.PUT("/dashboard/view", h.Dashboard.SwitchView)
	secured.GET("/dashboard/content", h.Dashboard.Content)
	secured.GET("/profile", h.Dashboard.Profile)

	appeals := secured.Group("/appeals")
	appeals.GET("", h.Appeals.List)
	appeals.GET("/view", h.Appeals.View)
	appeals.DELETE("/selection", h.Appeals.ClearSelection)
	appeals.GET("/:id", h.Appeals.Get)
	appeals.POST("/:id/select", h.Appeals.Select)
	appeals.PUT("/:id/status", h.Appeals.UpdateStatus)
	appeals.POST("/:id/actions/:action", h.Appeals.Action)
	appeals.GET("/:id/transitions", h.Appeals.Transitions)

	checkIn := secured.Group("/checkin")
	checkIn.GET("", h.CheckIn.View)
	checkIn.GET("/weeks", h.CheckIn.Weeks)
	checkIn.DELETE("/selection", h.CheckIn.ClearSelection)
	checkIn.GET("/weeks/:week", h.CheckIn.Detail)
	checkIn.POST("/weeks/:week/select", h.CheckIn.Select)

	students := secured.Group("/students")
	students.GET("/stats", h.Stats.Stats)
	students.GET("/export", h.Stats.Export)
}
