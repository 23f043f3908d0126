package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/erp/stockdesk/internal/infrastructure/config"
	"github.com/erp/stockdesk/internal/infrastructure/logger"
	"github.com/erp/stockdesk/internal/interfaces/http/handler"
	"github.com/erp/stockdesk/internal/interfaces/http/middleware"
)

// EngineConfig holds what NewEngine needs besides the handlers. Meter may be
// nil when metrics are disabled.
type EngineConfig struct {
	Logger         *zap.Logger
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	Meter          metric.Meter
	Production     bool
}

// NewEngine builds the gin engine with the middleware chain, /health and the
// versioned API routes
func NewEngine(cfg EngineConfig, system *handler.SystemHandler, handlers Handlers) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// Recovery first so panics anywhere below are caught; RequestID before
	// the logger so every line carries it.
	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.TracingEnabled,
		}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(cfg.Meter),
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
	)
	if cfg.HTTP.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	}

	if system != nil {
		engine.GET("/health", system.Health)
	}

	r := NewRouter(engine)
	for _, group := range APIGroups(handlers) {
		r.Register(group)
	}
	r.Setup()

	return engine
}
