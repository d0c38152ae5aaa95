package repository

import (
	"github.com/capsulebrew/capsulebrew/internal/domain/account"
	"github.com/capsulebrew/capsulebrew/internal/domain/order"
	"github.com/capsulebrew/capsulebrew/internal/domain/payment"
	"github.com/capsulebrew/capsulebrew/internal/domain/subscription"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/postgres"
	repo "github.com/capsulebrew/capsulebrew/internal/repository/postgres"
)

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return repo.NewSubscriptionRepository(db, logger)
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return repo.NewAccountRepository(db, logger)
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return repo.NewOrderRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return repo.NewPaymentRepository(db, logger)
}
