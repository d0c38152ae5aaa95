package service

import (
	"github.com/capsulebrew/capsulebrew/internal/cache"
	"github.com/capsulebrew/capsulebrew/internal/config"
	"github.com/capsulebrew/capsulebrew/internal/domain/account"
	"github.com/capsulebrew/capsulebrew/internal/domain/order"
	"github.com/capsulebrew/capsulebrew/internal/domain/payment"
	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	"github.com/capsulebrew/capsulebrew/internal/lock"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// AccountLocks serializes plan-change read-modify-write sequences per
	// account on top of the database transaction.
	AccountLocks *lock.KeyedMutex

	// Repositories
	AccountRepo account.Repository
	OrderRepo   order.Repository
	PaymentRepo payment.Repository
	SubRepo     subscription.Repository
}

// NewServiceParams assembles the common dependency set
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	cache cache.Cache,
	accountRepo account.Repository,
	orderRepo order.Repository,
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Cache:        cache,
		AccountLocks: lock.NewKeyedMutex(),
		AccountRepo:  accountRepo,
		OrderRepo:    orderRepo,
		PaymentRepo:  paymentRepo,
		SubRepo:      subRepo,
	}
}
