package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"callcenter-platform/internal/auth"
	"callcenter-platform/internal/rbac"
	"callcenter-platform/pkg/logger"
	"callcenter-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const apiVersion = "1.0.0"

// readiness reports whether the backing stores answer.
type readiness interface {
	Ready(ctx context.Context) map[string]error
}

type storeChecks struct {
	db  *sql.DB
	rdb *redis.Client
}

func (p storeChecks) Ready(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return map[string]error{
		"postgres": utils.HealthCheck(ctx, p.db, 2*time.Second),
		"redis":    p.rdb.Ping(ctx).Err(),
	}
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	// public
	r.GET("/", auth.OptionalUser(d.auth, d.users), welcome)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readyz(d.ready))

	api := r.Group("/api")
	d.usersHandler.RegisterPublic(api)

	// protected API group
	protected := api.Group("")
	protected.Use(auth.RequireUser(d.auth, d.users))
	{
		d.usersHandler.Register(protected, rbac.RequireAnyRole(rbac.RoleAdmin))
		d.callsHandler.Register(protected)
		d.classifications.Register(protected)
		d.metrics.Register(protected)
		d.reports.Register(protected)
	}
}

func welcome(c *gin.Context) {
	body := gin.H{
		"message": "Bienvenido a la API del Call Center",
		"version": apiVersion,
	}
	if id, ok := auth.CurrentIdentity(c); ok {
		body["usuario"] = gin.H{"id": id.UserID, "nombre": id.Name, "rol": id.Role}
	}
	c.JSON(http.StatusOK, body)
}

func readyz(p readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}
		for name, err := range p.Ready(c.Request.Context()) {
			if err != nil {
				logger.FromGin(c).Warn("readiness check failed", "dependency", name, "err", err)
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}
