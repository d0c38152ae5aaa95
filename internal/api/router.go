package api

import (
	"github.com/capsulebrew/capsulebrew/internal/api/cron"
	v1 "github.com/capsulebrew/capsulebrew/internal/api/v1"
	"github.com/capsulebrew/capsulebrew/internal/config"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/rest/middleware"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health           *v1.HealthHandler
	Membership       *v1.MembershipHandler
	Subscription     *v1.SubscriptionHandler
	CronSubscription *cron.SubscriptionHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	// cron routes called by the external scheduler
	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.POST("/change", handlers.Subscription.ChangePlan)
		subscriptions.PUT("/payment-method", handlers.Subscription.UpdatePaymentMethod)
	}

	accounts := router.Group("/accounts")
	{
		accounts.GET("/:account_id/subscription", handlers.Subscription.GetSubscription)
		accounts.POST("/:account_id/subscription/cancel", handlers.Subscription.CancelSubscription)
		accounts.POST("/:account_id/subscription/auto-renew", handlers.Subscription.ToggleAutoRenew)
		accounts.GET("/:account_id/membership", handlers.Membership.GetMembership)
		accounts.GET("/:account_id/discount", handlers.Membership.GetCheckoutDiscount)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/transitions", handlers.CronSubscription.ProcessDueTransitions)
	}
}
