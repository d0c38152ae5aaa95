package main

import (
	"context"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/api"
	"github.com/capsulebrew/capsulebrew/internal/api/cron"
	v1 "github.com/capsulebrew/capsulebrew/internal/api/v1"
	"github.com/capsulebrew/capsulebrew/internal/cache"
	"github.com/capsulebrew/capsulebrew/internal/config"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
	"github.com/capsulebrew/capsulebrew/internal/repository"
	"github.com/capsulebrew/capsulebrew/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Load .env if present; real deployments rely on the environment
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewAccountRepository,
			repository.NewOrderRepository,
			repository.NewPaymentRepository,
			repository.NewSubscriptionRepository,
		),
		fx.Provide(
			service.NewServiceParams,

			// Business services
			service.NewMembershipService,
			service.NewDiscountService,
			service.NewSubscriptionService,
		),
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	membershipService service.MembershipService,
	discountService service.DiscountService,
	subscriptionService service.SubscriptionService,
) api.Handlers {
	return api.Handlers{
		Health:           v1.NewHealthHandler(logger),
		Membership:       v1.NewMembershipHandler(membershipService, discountService, logger),
		Subscription:     v1.NewSubscriptionHandler(subscriptionService, logger),
		CronSubscription: cron.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
