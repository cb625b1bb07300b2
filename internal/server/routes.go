package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.Static("/uploads", s.config.UploadDir)

	api := s.echo.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/stream", s.handleStream)

	api.GET("/sharing-rates", s.handleListSharingRates)
	api.POST("/sharing-rates", s.handleCreateSharingRate)
	api.PUT("/sharing-rates/:id", s.handleUpdateSharingRate)
	api.DELETE("/sharing-rates/:id", s.handleDeleteSharingRate)

	api.GET("/chairmen", s.handleListChairmen)
	api.POST("/chairmen", s.handleCreateChairman)
	api.PUT("/chairmen/:id", s.handleUpdateChairman)
	api.DELETE("/chairmen/:id", s.handleDeleteChairman)

	api.GET("/news", s.handleListNews)
	api.GET("/news/:id", s.handleGetNews)
	api.POST("/news", s.handleCreateNews)
	api.PUT("/news/:id", s.handleUpdateNews)
	api.DELETE("/news/:id", s.handleDeleteNews)

	api.GET("/news-ticker", s.handleListTicker)
	api.POST("/news-ticker", s.handleCreateTicker)
	api.PUT("/news-ticker/:id", s.handleUpdateTicker)
	api.DELETE("/news-ticker/:id", s.handleDeleteTicker)

	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.POST("/projects", s.handleCreateProject)
	api.PUT("/projects/:id", s.handleUpdateProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	contact := api.Group("/contact")
	contact.POST("/submit", s.handleSubmitContact, s.contactRateLimiter())
	contact.GET("/admin/contacts", s.handleListContacts)
	contact.GET("/admin/contacts/stats", s.handleContactStats)
	contact.GET("/admin/contacts/:id", s.handleGetContact)
	contact.PUT("/admin/contacts/:id/replied", s.handleMarkContactReplied)
	contact.DELETE("/admin/contacts/:id", s.handleDeleteContact)
}
