package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/encomendas/services/orders/config"
	"example.com/encomendas/services/orders/internal/api/handlers"
	"example.com/encomendas/services/orders/internal/api/middleware"
	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/services"
	"example.com/encomendas/services/orders/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config          config.Config
	router          *gin.Engine
	httpServer      *http.Server
	orderService    *services.OrderService
	customerService *services.CustomerService
	productService  *services.ProductService
	metrics         *metrics.Metrics
	tracer          tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	orderService *services.OrderService,
	customerService *services.CustomerService,
	productService *services.ProductService,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:          cfg,
		orderService:    orderService,
		customerService: customerService,
		productService:  productService,
		metrics:         collector,
		tracer:          tracer,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	handlers.NewOrdersHandler(s.orderService, s.tracer).RegisterRoutes(router)
	handlers.NewCustomersHandler(s.customerService, s.orderService).RegisterRoutes(router)
	handlers.NewProductsHandler(s.productService).RegisterRoutes(router)
	handlers.NewMetricsHandler(s.metrics).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
