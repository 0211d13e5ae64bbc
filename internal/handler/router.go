package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the endpoint handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth       *AuthHandler
	Programmes *ProgrammeHandler
	Admin      *AdminHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts the API under prefix. session guards every route that
// acts for a signed-in student.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, session gin.HandlerFunc) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/signin", h.Auth.SignIn)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/signout", session, h.Auth.SignOut)

	me := api.Group("/me", session)
	me.GET("", h.Auth.Me)
	me.PUT("", h.Auth.UpdateMe)

	programmes := api.Group("/programmes", session)
	programmes.GET("", h.Programmes.List)
	programmes.GET("/current", h.Programmes.Current)
	programmes.POST("/reload", h.Programmes.Reload)
	programmes.PUT("/filter", h.Programmes.SetFilter)
	programmes.PUT("/page", h.Programmes.ChangePage)
	programmes.POST("/custom", h.Programmes.Custom)
	programmes.GET("/summary", h.Programmes.Summary)
	programmes.GET("/last-viewed", h.Programmes.LastViewed)
	programmes.GET("/export", h.Programmes.Export)
	programmes.GET("/:courseAbbr", h.Programmes.Detail)

	admin := api.Group("/admin", session)
	admin.POST("/programmes", h.Admin.Create)
	admin.PUT("/programmes/:courseAbbr", h.Admin.Update)
	admin.DELETE("/programmes/:courseAbbr", h.Admin.Delete)
	admin.GET("/universities/:universityAbbr/colleges", h.Admin.Colleges)
}
