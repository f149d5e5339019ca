package router

import (
	"github.com/gin-gonic/gin"

	mdw "scicomp-hub/internal/transport/http/middleware"
)

// NewAPIEngine builds the public/creator plane served by cmd/api.
func NewAPIEngine(d Deps) *gin.Engine {
	r := baseEngine(d.Log)

	api := r.Group("/api/v1")

	// Public routes resolve the actor when a token is present so owners
	// can see their own unlisted competitions.
	public := api.Group("")
	public.Use(mdw.OptionalAuth(d.Guard))

	// Authenticated routes.
	authed := api.Group("")
	authed.Use(mdw.Auth(d.Guard))

	// Credential endpoints carry a per-IP budget on top of the global
	// limiter to slow down brute forcing.
	creds := api.Group("")
	creds.Use(mdw.RateLimitPerIP(5, 10))

	mountAuthActions(creds, authed, d)
	mountCompetitionActions(public, authed, d)
	mountUploadActions(authed, d)

	return r
}
