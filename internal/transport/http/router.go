// Package httptransport exposes the generation pipeline over HTTP: a gin
// router carrying the voice catalog, ad hoc synthesis and episode ledger
// endpoints, with generated audio served statically under /audio.
package httptransport

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Options configures the HTTP router builder.
type Options struct {
	Config *config.Config
	Logger *logging.Logger

	// StaticRoot is served under /audio. Empty falls back to the
	// configured static dir.
	StaticRoot string
}

// Router bundles the gin engine and the /api route group.
type Router struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
}

// Build constructs a gin engine pre-configured with recovery, request
// logging, CORS and the static audio mount.
func Build(opts Options) (*Router, error) {
	const op = "http.build"

	if opts.Config == nil {
		return nil, errors.New(errors.KindConfig, op, "config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New(errors.KindConfig, op, "logger is required")
	}

	if opts.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(opts.Logger))
	_ = engine.SetTrustedProxies(nil)

	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	staticRoot := opts.StaticRoot
	if staticRoot == "" {
		staticRoot = opts.Config.Server.StaticDir
	}
	if staticRoot != "" {
		engine.Use(static.Serve("/audio", static.LocalFile(staticRoot, false)))
	}

	return &Router{
		Engine: engine,
		API:    engine.Group("/api"),
	}, nil
}

func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoTag("HTTP", "%s %s -> %d (%s)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
