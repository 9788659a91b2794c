package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/encomendas/services/orders/config"
	"example.com/encomendas/services/orders/internal/api"
	"example.com/encomendas/services/orders/internal/cache"
	"example.com/encomendas/services/orders/internal/database"
	"example.com/encomendas/services/orders/internal/messaging"
	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/search"
	"example.com/encomendas/services/orders/internal/services"
	"example.com/encomendas/services/orders/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for order, customer and catalog management`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := models.SetupModels(db); err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	var elasticClient *search.ElasticClient
	if cfg.Elastic.Enabled {
		elasticClient, err = search.NewElasticClient(cfg.Elastic)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
			elasticClient = nil
		}
	}

	var publisher messaging.Publisher
	if cfg.ServiceBus.ConnectionString != "" {
		publisher, err = messaging.NewServiceBusPublisher(cfg.ServiceBus)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Service Bus publisher, continuing without events")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	metricsCollector := metrics.NewMetrics()

	orderService := services.NewOrderService(db, redisCache, elasticClient, publisher, metricsCollector, tracer)
	customerService := services.NewCustomerService(db, metricsCollector)
	productService := services.NewProductService(db, metricsCollector)

	server := api.NewServer(cfg, orderService, customerService, productService, metricsCollector, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
