package service

import (
	"testing"
	"time"

	"github.com/capsulebrew/capsulebrew/internal/domain/account"
	"github.com/capsulebrew/capsulebrew/internal/domain/order"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/lock"
	"github.com/capsulebrew/capsulebrew/internal/testutil"
	"github.com/capsulebrew/capsulebrew/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MembershipServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MembershipService
}

func TestMembershipService(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}

func (s *MembershipServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewMembershipService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Cache:        s.GetCache(),
		AccountLocks: lock.NewKeyedMutex(),
		AccountRepo:  stores.AccountRepo,
		OrderRepo:    stores.OrderRepo,
		PaymentRepo:  stores.PaymentRepo,
		SubRepo:      stores.SubscriptionRepo,
	})
}

func (s *MembershipServiceSuite) seedAccount(id string, createdAt time.Time) {
	acct := &account.Account{
		ID:    id,
		Email: id + "@example.com",
		BaseModel: types.BaseModel{
			Status:    types.StatusActive,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
	}
	err := s.GetStores().AccountRepo.(*testutil.InMemoryAccountStore).Create(s.GetContext(), acct)
	s.NoError(err)
}

func (s *MembershipServiceSuite) seedPurchase(accountID string, sleeves int64, orderDate time.Time, cancelled bool) {
	p := &order.CapsulePurchase{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PURCHASE),
		AccountID: accountID,
		Quantity:  sleeves,
		OrderDate: orderDate,
		Cancelled: cancelled,
	}
	err := s.GetStores().OrderRepo.(*testutil.InMemoryOrderStore).Create(s.GetContext(), p)
	s.NoError(err)
}

func (s *MembershipServiceSuite) TestComputeTierFirstYear() {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedAccount("acct-1", createdAt)
	s.seedPurchase("acct-1", 5, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false)
	s.seedPurchase("acct-1", 3, time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC), false)

	resp, err := s.service.ComputeTier(s.GetContext(), "acct-1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(types.MembershipTierConnoisseur, resp.Tier)
	s.Equal(int64(80), resp.CapsuleCount)
	s.Equal(createdAt, resp.PeriodStart)
	s.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), resp.PeriodEnd)
	s.True(resp.DiscountPercent.Equal(decimal.NewFromInt(5)))
}

func (s *MembershipServiceSuite) TestComputeTierExpertThreshold() {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedAccount("acct-2", createdAt)
	s.seedPurchase("acct-2", 78, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false)

	resp, err := s.service.ComputeTier(s.GetContext(), "acct-2", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(int64(780), resp.CapsuleCount)
	s.Equal(types.MembershipTierExpert, resp.Tier)
	s.True(resp.DiscountPercent.Equal(decimal.NewFromInt(10)))
}

func (s *MembershipServiceSuite) TestComputeTierIgnoresCancelledPurchases() {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.seedAccount("acct-3", createdAt)
	s.seedPurchase("acct-3", 200, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true)
	s.seedPurchase("acct-3", 1, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), false)

	resp, err := s.service.ComputeTier(s.GetContext(), "acct-3", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(int64(10), resp.CapsuleCount)
	s.Equal(types.MembershipTierConnoisseur, resp.Tier)
}

func (s *MembershipServiceSuite) TestComputeTierIgnoresPriorPeriodPurchases() {
	createdAt := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	s.seedAccount("acct-4", createdAt)
	// year one: enough for expert
	s.seedPurchase("acct-4", 100, time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), false)
	// year two: a single sleeve
	s.seedPurchase("acct-4", 1, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), false)

	resp, err := s.service.ComputeTier(s.GetContext(), "acct-4", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), resp.PeriodStart)
	s.Equal(int64(10), resp.CapsuleCount)
	s.Equal(types.MembershipTierConnoisseur, resp.Tier)
}

func (s *MembershipServiceSuite) TestComputeTierUnknownAccountFailsOpen() {
	resp, err := s.service.ComputeTier(s.GetContext(), "acct-missing", time.Time{})
	s.NoError(err)
	s.Equal(types.MembershipTierNone, resp.Tier)
	s.Equal(int64(0), resp.CapsuleCount)
	s.True(resp.DiscountPercent.IsZero())
}

func (s *MembershipServiceSuite) TestComputeTierRequiresAccountID() {
	_, err := s.service.ComputeTier(s.GetContext(), "", time.Time{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *MembershipServiceSuite) TestComputeTierCachedLagsRecentPurchases() {
	createdAt := time.Now().UTC().AddDate(0, -1, 0)
	s.seedAccount("acct-5", createdAt)
	s.seedPurchase("acct-5", 1, createdAt.AddDate(0, 0, 1), false)

	first, err := s.service.ComputeTierCached(s.GetContext(), "acct-5")
	s.NoError(err)
	s.Equal(int64(10), first.CapsuleCount)

	// a purchase after the cache fill is not visible until the TTL expires
	s.seedPurchase("acct-5", 100, time.Now().UTC(), false)

	second, err := s.service.ComputeTierCached(s.GetContext(), "acct-5")
	s.NoError(err)
	s.Equal(int64(10), second.CapsuleCount)

	// the uncached path sees it immediately
	fresh, err := s.service.ComputeTier(s.GetContext(), "acct-5", time.Time{})
	s.NoError(err)
	s.Equal(int64(1010), fresh.CapsuleCount)
	s.Equal(types.MembershipTierExpert, fresh.Tier)
}

func (s *MembershipServiceSuite) TestComputeTierCachedReturnsIsolatedCopies() {
	createdAt := time.Now().UTC().AddDate(0, -1, 0)
	s.seedAccount("acct-6", createdAt)
	s.seedPurchase("acct-6", 1, createdAt.AddDate(0, 0, 1), false)

	first, err := s.service.ComputeTierCached(s.GetContext(), "acct-6")
	s.NoError(err)
	s.Equal(types.MembershipTierConnoisseur, first.Tier)

	// a caller scribbling on its response must not leak into the cache
	first.Tier = types.MembershipTierAmbassador
	first.CapsuleCount = 99999

	second, err := s.service.ComputeTierCached(s.GetContext(), "acct-6")
	s.NoError(err)
	s.Equal(types.MembershipTierConnoisseur, second.Tier)
	s.Equal(int64(10), second.CapsuleCount)
}
