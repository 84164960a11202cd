package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/smallbiznis/pixomat/internal/auth/domain"
	"github.com/smallbiznis/pixomat/internal/auth/session"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/smallbiznis/pixomat/internal/dispatch"
	historydomain "github.com/smallbiznis/pixomat/internal/history/domain"
	"github.com/smallbiznis/pixomat/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pixomat/internal/observability/metrics"
	subscriptiondomain "github.com/smallbiznis/pixomat/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	sessions        *session.Manager
	authsvc         authdomain.Service
	authrepo        authdomain.Repository
	catalogsvc      catalogdomain.Service
	subscriptionsvc subscriptiondomain.Service
	historysvc      historydomain.Service
	router          *dispatch.Router
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Sessions        *session.Manager
	Authsvc         authdomain.Service
	Authrepo        authdomain.Repository
	Catalogsvc      catalogdomain.Service
	Subscriptionsvc subscriptiondomain.Service
	Historysvc      historydomain.Service
	Router          *dispatch.Router
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		sessions:        p.Sessions,
		authsvc:         p.Authsvc,
		authrepo:        p.Authrepo,
		catalogsvc:      p.Catalogsvc,
		subscriptionsvc: p.Subscriptionsvc,
		historysvc:      p.Historysvc,
		router:          p.Router,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.engine.Static(s.cfg.MediaBaseURL, s.cfg.MediaRoot)

	auth := s.engine.Group("/api/v1/auth")
	{
		auth.POST("/register", s.Register)
		auth.POST("/login", s.Login)
		auth.POST("/logout", s.Logout)
		auth.GET("/me", s.AuthRequired(), s.Me)
	}

	api := s.engine.Group("/api/v1")
	{
		api.GET("/features", s.ListFeatures)
		api.GET("/plans", s.ListPlans)
		api.GET("/stats", s.Stats)

		api.POST("/subscriptions", s.AuthRequired(), s.CreateSubscription)
		api.GET("/subscriptions/me", s.AuthRequired(), s.GetMySubscription)
		api.DELETE("/subscriptions/me", s.AuthRequired(), s.CancelMySubscription)

		api.GET("/history", s.AuthRequired(), s.ListHistory)
		api.GET("/features/recent", s.AuthRequired(), s.RecentFeatures)

		api.POST("/invoke/:feature_key", s.OptionalAuth(), s.Invoke)
	}
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Fatal("http server", zap.Error(err))
				}
			}()
			s.log.Info("listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
