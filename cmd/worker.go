package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/encomendas/services/orders/config"
	"example.com/encomendas/services/orders/internal/cache"
	"example.com/encomendas/services/orders/internal/database"
	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/services"
	"example.com/encomendas/services/orders/internal/tracing"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that reconciles drifted current-location pointers`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

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

	metricsCollector := metrics.NewMetrics()

	orderService := services.NewOrderService(db, redisCache, nil, nil, metricsCollector, tracer)

	interval := cfg.Worker.ReconcileInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	g.Go(func() error {
		log.Info().Dur("interval", interval).Msg("Starting location pointer reconciliation job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				if err := orderService.ReconcileLocationPointers(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile location pointers")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
