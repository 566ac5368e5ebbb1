// Package app wires every endpoint to its handler
package app

import (
	"context"
	"net/http"
	"time"

	"bitwise74/goals-api/app/goal"
	"bitwise74/goals-api/app/graph"
	"bitwise74/goals-api/app/graphstat"
	"bitwise74/goals-api/app/root"
	"bitwise74/goals-api/app/statistic"
	"bitwise74/goals-api/app/user"
	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	CORSOrigins []string
	// SignupToken, when set, must be presented as a bearer token to sign up.
	SignupToken string
	// RateLimit is requests per second per client IP, 0 disables it.
	RateLimit int
	BodyLimit int64
	Metrics   bool
}

// OptionsFromConfig reads router options from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		CORSOrigins: viper.GetStringSlice("host.cors_origins"),
		SignupToken: viper.GetString("auth.signup_token"),
		RateLimit:   viper.GetInt("security.rate_limit"),
		BodyLimit:   viper.GetInt64("security.body_limit"),
		Metrics:     viper.GetBool("app.metrics"),
	}
}

// NewRouter builds the HTTP API on top of d. Background work started by
// middleware stops when ctx is cancelled.
func NewRouter(ctx context.Context, d *internal.Deps, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(
		newCORS(opts.CORSOrigins),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.URL.Path == "/metrics"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString(middleware.RequestIDKey); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(middleware.UserIDKey); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	if opts.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		router.Use(middleware.NewMetrics(reg).Handler())

		// GET /metrics			-> Prometheus exposition
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	if opts.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
			RequestsPerSecond: opts.RateLimit,
			CleanupInterval:   time.Minute,
		}))
	}

	if opts.BodyLimit <= 0 {
		opts.BodyLimit = 1 << 20
	}

	router.NoRoute(root.NotFound)

	jwt := middleware.NewAuthMiddleware(d.Tokens)
	body := middleware.BodySizeLimiter(opts.BodyLimit)
	responses := persist.NewMemoryStore(time.Minute)

	// GET /test			-> Liveness check
	router.GET("/test", cache.CacheByRequestURI(responses, time.Minute), root.Test)

	// GET /ready			-> Readiness check, pings the database
	router.GET("/ready", func(c *gin.Context) { root.Ready(c, d) })

	// POST /signup			-> Registers a new user and returns an access token
	router.POST("/signup", body, middleware.SignupGuard(opts.SignupToken), func(c *gin.Context) { user.SignUp(c, d) })

	// POST /signin			-> Returns an access token and a refresh token
	router.POST("/signin", body, func(c *gin.Context) { user.SignIn(c, d) })

	u := router.Group("/users", body)
	{
		// POST /users/refresh-token		-> Exchanges a refresh token for an access token
		u.POST("/refresh-token", func(c *gin.Context) { user.RefreshToken(c, d) })

		// DELETE /users/refresh-token/:id	-> Revokes a refresh token (admin)
		u.DELETE("/refresh-token/:id", jwt, func(c *gin.Context) { user.DeleteRefreshToken(c, d) })

		// PATCH /users/:id/change-password	-> Changes a user's password
		u.PATCH("/:id/change-password", jwt, func(c *gin.Context) { user.ChangePassword(c, d) })

		// GET /users				-> Lists active users (admin)
		u.GET("", jwt, func(c *gin.Context) { user.FindAll(c, d) })

		// GET /users/:id			-> Returns a user
		u.GET("/:id", jwt, func(c *gin.Context) { user.FindByID(c, d) })

		// PUT /users/:id			-> Updates a user's profile
		u.PUT("/:id", jwt, func(c *gin.Context) { user.Update(c, d) })

		// DELETE /users/:id			-> Deletes a user and everything they own
		u.DELETE("/:id", jwt, func(c *gin.Context) { user.DeleteOne(c, d) })
	}

	g := router.Group("/goals", jwt, body)
	{
		g.POST("", func(c *gin.Context) { goal.Resource.Add(c, d) })
		g.GET("", func(c *gin.Context) { goal.Resource.FindByUser(c, d) })
		g.GET("/:id", func(c *gin.Context) { goal.Resource.FindByID(c, d) })
		g.PUT("/:id", func(c *gin.Context) { goal.Resource.Update(c, d) })
		g.DELETE("/:id", func(c *gin.Context) { goal.Resource.DeleteOne(c, d) })
	}

	gr := router.Group("/graphs", jwt, body)
	{
		gr.POST("", func(c *gin.Context) { graph.Resource.Add(c, d) })
		gr.GET("", func(c *gin.Context) { graph.Resource.FindByUser(c, d) })
		gr.GET("/:id", func(c *gin.Context) { graph.Resource.FindByID(c, d) })
		gr.PUT("/:id", func(c *gin.Context) { graph.Resource.Update(c, d) })
		gr.DELETE("/:id", func(c *gin.Context) { graph.Resource.DeleteOne(c, d) })
	}

	s := router.Group("/statistics", jwt, body)
	{
		s.POST("", func(c *gin.Context) { statistic.Resource.Add(c, d) })
		s.GET("", func(c *gin.Context) { statistic.Resource.FindByUser(c, d) })
		s.GET("/:id", func(c *gin.Context) { statistic.Resource.FindByID(c, d) })
		s.PUT("/:id", func(c *gin.Context) { statistic.Resource.Update(c, d) })
		s.DELETE("/:id", func(c *gin.Context) { statistic.Resource.DeleteOne(c, d) })
	}

	// GET /graphs-stats		-> Returns all graphs and statistics of the caller
	router.GET("/graphs-stats", jwt, func(c *gin.Context) { graphstat.FindByUser(c, d) })

	return router
}

func newCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
