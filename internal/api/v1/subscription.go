package v1

import (
	"net/http"

	"github.com/capsulebrew/capsulebrew/internal/api/dto"
	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/service"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// @Summary Create subscription
// @Description Start a fresh subscription for an account, replacing any prior records
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription Request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to create subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Change plan
// @Description Upgrade immediately or schedule a downgrade at the renewal boundary
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param change body dto.ChangePlanRequest true "Plan Change Request"
// @Success 200 {object} dto.PlanChangeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscriptions/change [post]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ChangePlan(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to change plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get subscription overview
// @Description Get the record in force plus any pending scheduled record
// @Tags Subscriptions
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.SubscriptionOverviewResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{account_id}/subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		c.Error(ierr.NewError("account ID is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetCurrentAndScheduled(c.Request.Context(), accountID)
	if err != nil {
		h.log.Error("Failed to get subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel subscription
// @Description Stop auto-renewal; access continues until the renewal date
// @Tags Subscriptions
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{account_id}/subscription/cancel [post]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		c.Error(ierr.NewError("account ID is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CancelSubscription(c.Request.Context(), accountID)
	if err != nil {
		h.log.Error("Failed to cancel subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Toggle auto-renew
// @Description Flip the auto-renew flag on the current subscription
// @Tags Subscriptions
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.ToggleAutoRenewResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{account_id}/subscription/auto-renew [post]
func (h *SubscriptionHandler) ToggleAutoRenew(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		c.Error(ierr.NewError("account ID is required").
			WithHint("Please provide a valid account ID").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ToggleAutoRenew(c.Request.Context(), accountID)
	if err != nil {
		h.log.Error("Failed to toggle auto renew", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update payment method
// @Description Reassign the payment reference on the current subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payment body dto.UpdatePaymentMethodRequest true "Payment Method Request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscriptions/payment-method [put]
func (h *SubscriptionHandler) UpdatePaymentMethod(c *gin.Context) {
	var req dto.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to update payment method", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
