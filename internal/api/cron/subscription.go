package cron

import (
	"net/http"
	"time"

	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
	"github.com/capsulebrew/capsulebrew/internal/logger"
	"github.com/capsulebrew/capsulebrew/internal/service"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription related cron jobs
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// ProcessDueTransitions retires ending records past their end date and
// activates scheduled records past their start date. An optional as_of
// query parameter (RFC3339) overrides the sweep time, which backfills
// missed runs.
func (h *SubscriptionHandler) ProcessDueTransitions(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("as_of must be a valid RFC3339 timestamp").
				Mark(ierr.ErrValidation))
			return
		}
		asOf = parsed.UTC()
	}

	h.logger.Infow("starting subscription transition sweep", "as_of", asOf)

	response, err := h.subscriptionService.ProcessDueTransitions(c.Request.Context(), asOf)
	if err != nil {
		h.logger.Errorw("failed to process subscription transitions",
			"error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
