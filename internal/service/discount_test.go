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

type DiscountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service DiscountService
}

func TestDiscountService(t *testing.T) {
	suite.Run(t, new(DiscountServiceSuite))
}

func (s *DiscountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewDiscountService(ServiceParams{
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

func (s *DiscountServiceSuite) TestComputeDiscount() {
	tests := []struct {
		name     string
		tier     types.MembershipTier
		subtotal string
		amount   string
		after    string
	}{
		{"expert ten percent", types.MembershipTierExpert, "1000.00", "100", "900"},
		{"none no discount", types.MembershipTierNone, "50.00", "0", "50"},
		{"connoisseur rounds half up", types.MembershipTierConnoisseur, "10.10", "0.51", "9.59"},
		{"ambassador top rate", types.MembershipTierAmbassador, "200.00", "40", "160"},
		{"zero subtotal", types.MembershipTierMaster, "0", "0", "0"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			subtotal := decimal.RequireFromString(tt.subtotal)
			resp, err := s.service.ComputeDiscount(tt.tier, subtotal)
			s.NoError(err)
			s.True(resp.Amount.Equal(decimal.RequireFromString(tt.amount)),
				"amount: got %s want %s", resp.Amount, tt.amount)
			s.True(resp.SubtotalAfterDiscount.Equal(decimal.RequireFromString(tt.after)),
				"after: got %s want %s", resp.SubtotalAfterDiscount, tt.after)
		})
	}
}

func (s *DiscountServiceSuite) TestComputeDiscountRejectsNegativeSubtotal() {
	_, err := s.service.ComputeDiscount(types.MembershipTierExpert, decimal.NewFromInt(-1))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *DiscountServiceSuite) TestComputeDiscountRejectsUnknownTier() {
	_, err := s.service.ComputeDiscount(types.MembershipTier("platinum"), decimal.NewFromInt(10))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *DiscountServiceSuite) TestComputeCheckoutTotalDerivesTierFromHistory() {
	createdAt := time.Now().UTC().AddDate(0, -2, 0)
	acct := &account.Account{
		ID:    "acct-checkout",
		Email: "checkout@example.com",
		BaseModel: types.BaseModel{
			Status:    types.StatusActive,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
	}
	s.NoError(s.GetStores().AccountRepo.(*testutil.InMemoryAccountStore).Create(s.GetContext(), acct))

	// 78 sleeves puts the account at expert
	p := &order.CapsulePurchase{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PURCHASE),
		AccountID: "acct-checkout",
		Quantity:  78,
		OrderDate: createdAt.AddDate(0, 0, 3),
	}
	s.NoError(s.GetStores().OrderRepo.(*testutil.InMemoryOrderStore).Create(s.GetContext(), p))

	resp, err := s.service.ComputeCheckoutTotal(s.GetContext(), "acct-checkout", decimal.RequireFromString("1000.00"))
	s.NoError(err)
	s.Equal(types.MembershipTierExpert, resp.Tier)
	s.True(resp.Amount.Equal(decimal.NewFromInt(100)))
	s.True(resp.SubtotalAfterDiscount.Equal(decimal.NewFromInt(900)))
}

func (s *DiscountServiceSuite) TestComputeCheckoutTotalUnknownAccountGetsZeroDiscount() {
	resp, err := s.service.ComputeCheckoutTotal(s.GetContext(), "acct-nobody", decimal.NewFromInt(100))
	s.NoError(err)
	s.Equal(types.MembershipTierNone, resp.Tier)
	s.True(resp.Amount.IsZero())
	s.True(resp.SubtotalAfterDiscount.Equal(decimal.NewFromInt(100)))
}
