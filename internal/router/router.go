// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrovia/agrocontrol/internal/handler"
	"github.com/agrovia/agrocontrol/internal/middleware"
	"github.com/agrovia/agrocontrol/internal/repository"
	"github.com/agrovia/agrocontrol/internal/service"
)

// Handlers collects every handler needed to serve the API.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Fields        *handler.FieldHandler
	Crops         *handler.CropHandler
	Subscriptions *handler.SubscriptionHandler
	Devices       *handler.DeviceHandler
	Sensors       *handler.SensorHandler
	Readings      *handler.ReadingHandler
	Alerts        *handler.AlertHandler
}

// RegisterPublic registers routes that require no session: health,
// metrics and the auth endpoints.  The limiter throttles register/login
// by client IP since no identity exists yet.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/api/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAPI registers the bearer-gated resource routes under /api/v1.
// Every route runs JWTAuth, then ResolveIdentity so deactivated accounts
// are cut off immediately, then the role gate.  The limiter and the
// response cache come last: both key by the resolved user id, and a
// cache hit must never short-circuit the auth chain.
func RegisterAPI(e *echo.Echo, h Handlers, users *repository.UserRepo, jwtSecret string,
	limiter, cache echo.MiddlewareFunc) {
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.ResolveIdentity(users))
	api.Use(middleware.RequireRole(service.RoleFarmer, service.RoleAdmin))
	api.Use(limiter)
	api.Use(cache)

	api.GET("/me", h.Auth.Me)

	api.GET("/users", h.Users.GetAll)
	api.GET("/users/:id", h.Users.GetByID)
	api.PUT("/users/:id", h.Users.Update)
	api.DELETE("/users/:id", h.Users.Delete)

	api.GET("/fields", h.Fields.GetAll)
	api.GET("/fields/:id", h.Fields.GetByID)
	api.GET("/fields/name/:name", h.Fields.GetByName)
	api.GET("/fields/user/:userId", h.Fields.GetByUser)
	api.POST("/fields", h.Fields.Create)
	api.PUT("/fields/:id", h.Fields.Update)
	api.DELETE("/fields/:id", h.Fields.Delete)

	api.GET("/crops", h.Crops.GetAll)
	api.GET("/crops/:id", h.Crops.GetByID)
	api.GET("/fields/:fieldId/crops", h.Crops.GetByField)
	api.POST("/crops", h.Crops.Create)
	api.PUT("/crops/:id", h.Crops.Update)
	api.DELETE("/crops/:id", h.Crops.Delete)

	api.GET("/recommendations/:id", h.Crops.GetRecommendationByID)
	api.GET("/crops/:cropId/recommendations", h.Crops.GetRecommendationsByCrop)
	api.POST("/crops/:cropId/recommendations", h.Crops.CreateRecommendation)
	api.PUT("/recommendations/:id", h.Crops.UpdateRecommendation)
	api.DELETE("/recommendations/:id", h.Crops.DeleteRecommendation)

	api.GET("/crops/:cropId/history", h.Crops.GetHistoryByCrop)
	api.POST("/crops/:cropId/history", h.Crops.CreateHistory)
	api.PUT("/history/:id", h.Crops.UpdateHistory)
	api.DELETE("/history/:id", h.Crops.DeleteHistory)

	api.GET("/subscriptions", h.Subscriptions.GetAll)
	api.GET("/subscriptions/:id", h.Subscriptions.GetByID)
	api.GET("/subscriptions/user/:userId", h.Subscriptions.GetByUser)
	api.POST("/subscriptions", h.Subscriptions.Create)
	api.PUT("/subscriptions/:id", h.Subscriptions.Update)
	api.DELETE("/subscriptions/:id", h.Subscriptions.Delete)

	api.GET("/devices", h.Devices.GetAll)
	api.GET("/devices/:id", h.Devices.GetByID)
	api.GET("/crops/:cropId/device", h.Devices.GetByCrop)
	api.POST("/devices", h.Devices.Create)
	api.PUT("/devices/:id", h.Devices.Update)
	api.DELETE("/devices/:id", h.Devices.Delete)

	api.GET("/sensors", h.Sensors.GetAll)
	api.GET("/sensors/:id", h.Sensors.GetByID)
	api.GET("/devices/:deviceId/sensors", h.Sensors.GetByDevice)
	api.POST("/sensors", h.Sensors.Create)
	api.PUT("/sensors/:id", h.Sensors.Update)
	api.DELETE("/sensors/:id", h.Sensors.Delete)

	api.GET("/readings/:id", h.Readings.GetByID)
	api.GET("/sensors/:sensorId/readings", h.Readings.GetBySensor)
	api.POST("/readings", h.Readings.Create)
	api.PUT("/readings/:id", h.Readings.Update)
	api.DELETE("/readings/:id", h.Readings.Delete)

	api.GET("/alerts", h.Alerts.GetAll)
	api.GET("/alerts/:id", h.Alerts.GetByID)
	api.GET("/devices/:deviceId/alerts", h.Alerts.GetByDevice)
	api.POST("/alerts", h.Alerts.Create)
	api.PUT("/alerts/:id", h.Alerts.Update)
	api.DELETE("/alerts/:id", h.Alerts.Delete)
}
