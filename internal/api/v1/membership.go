package v1

import (
	"net/http"
	"time"

	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MembershipHandler struct {
	membership service.MembershipService
	discount   service.DiscountService
	log        *logger.Logger
}

func NewMembershipHandler(
	membership service.MembershipService,
	discount service.DiscountService,
	log *logger.Logger,
) *MembershipHandler {
	return &MembershipHandler{
		membership: membership,
		discount:   discount,
		log:        log,
	}
}

// @Summary Get membership
// @Description Get the account's derived loyalty tier for the current period
// @Tags Membership
// @Produce json
// @Param account_id path string true "Account ID"
// @Param cached query bool false "Allow a cached result"
// @Success 200 {object} dto.MembershipResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{account_id}/membership [get]
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		c.Error(ierr.NewError("account ID is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation))
		return
	}

	if c.Query("cached") == "true" {
		resp, err := h.membership.ComputeTierCached(c.Request.Context(), accountID)
		if err != nil {
			h.log.Error("Failed to compute membership tier", "error", err)
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.membership.ComputeTier(c.Request.Context(), accountID, time.Time{})
	if err != nil {
		h.log.Error("Failed to compute membership tier", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Compute checkout discount
// @Description Apply the account's current tier discount to a cart subtotal
// @Tags Membership
// @Produce json
// @Param account_id path string true "Account ID"
// @Param subtotal query string true "Cart subtotal"
// @Success 200 {object} dto.DiscountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{account_id}/discount [get]
func (h *MembershipHandler) GetCheckoutDiscount(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		c.Error(ierr.NewError("account ID is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation))
		return
	}

	subtotal, err := decimal.NewFromString(c.Query("subtotal"))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Subtotal must be a valid decimal amount").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.discount.ComputeCheckoutTotal(c.Request.Context(), accountID, subtotal)
	if err != nil {
		h.log.Error("Failed to compute checkout discount", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
