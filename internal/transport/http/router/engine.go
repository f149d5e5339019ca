package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scicomp-hub/internal/service"
	mdw "scicomp-hub/internal/transport/http/middleware"
)

// Deps is everything the HTTP layer consumes. The routers hold no state of
// their own.
type Deps struct {
	Log       *zap.Logger
	Guard     *service.Guard
	Auth      *service.AuthService
	Comps     *service.CompetitionService
	Mod       *service.ModerationService
	Listing   *service.ListingService
	Users     *service.UserAdminService
	Uploader  *service.Uploader
	MaxUpload int64
}

func baseEngine(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	return r
}
