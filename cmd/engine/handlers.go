package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
	"github.com/Victor-armando18/service-pricing/internal/domain/configurator"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/logging"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/metrics"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

type ConfigurationRequest struct {
	Product  domain.Product                `json:"product"`
	Actions  []configurator.ActionEnvelope `json:"actions"`
	Quantity int                           `json:"quantity"`
}

type ConfigurationResponse struct {
	Configuration configurator.Configuration `json:"configuration"`
	UnitPrice     domain.Money               `json:"unitPrice"`
	LineTotal     domain.Money               `json:"lineTotal"`
	CanCommit     configurator.CommitCheck   `json:"canCommit"`
	IdentityKey   string                     `json:"identityKey"`
}

type PatchRequest struct {
	Cart         domain.CartSnapshot      `json:"cart"`
	Patch        []map[string]interface{} `json:"patch"`
	HasDelivery  bool                     `json:"hasDelivery"`
	RulesVersion string                   `json:"rulesVersion,omitempty"`
}

type PatchResponse struct {
	Cart  domain.CartSnapshot `json:"cart"`
	Quote *domain.Quote       `json:"quote"`
}

type CouponValidationRequest struct {
	Coupon      domain.Coupon `json:"coupon"`
	Subtotal    domain.Money  `json:"subtotal"`
	DeliveryFee domain.Money  `json:"deliveryFee"`
	HasDelivery bool          `json:"hasDelivery"`
}

func (r ConfigurationRequest) replay() (*configurator.Configurator, configurator.Configuration, int, error) {
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, configurator.Configuration{}, 0, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}
	c := configurator.New(r.Product)
	cfg, err := c.Replay(r.Actions)
	return c, cfg, qty, err
}

func handleConfigurationPrice(c echo.Context) error {
	var req ConfigurationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payload inválido"})
	}
	cfgr, cfg, qty, err := req.replay()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, ConfigurationResponse{
		Configuration: cfg,
		UnitPrice:     cfgr.UnitPrice(cfg),
		LineTotal:     cfgr.LineTotal(cfg, qty),
		CanCommit:     cfgr.CanCommit(cfg),
		IdentityKey:   cfgr.IdentityKey(cfg),
	})
}

func handleConfigurationCommit(c echo.Context) error {
	var req ConfigurationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payload inválido"})
	}
	cfgr, cfg, qty, err := req.replay()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	line, err := cfgr.Commit(cfg, qty)
	if err != nil {
		var missing *domain.MissingRequiredSelectionError
		if errors.As(err, &missing) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":    err.Error(),
				"sections": missing.Sections,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, line)
}

func handleQuote(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req domain.QuoteRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payload inválido"})
		}

		quote, err := runQuote(requestContext(c), svc, req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, quote)
	}
}

func handlePatch(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req PatchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid patch request"})
		}

		patchBytes, err := json.Marshal(req.Patch)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid patch request"})
		}
		updated, err := infrastructure.ApplyCartPatch(req.Cart, patchBytes)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}

		// Re-calcular sobre o carrinho já alterado
		quote, err := runQuote(requestContext(c), svc, domain.QuoteRequest{
			Lines:        updated.Lines,
			Coupon:       updated.AppliedCoupon,
			HasDelivery:  req.HasDelivery,
			RulesVersion: req.RulesVersion,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, PatchResponse{Cart: updated, Quote: quote})
	}
}

func handleCheckout(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req domain.QuoteRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payload inválido"})
		}

		quote, err := runQuote(requestContext(c), svc, req)
		if err != nil {
			return respondError(c, err)
		}

		// Enforcement Final (Guards)
		if len(quote.GuardsHit) > 0 {
			return c.JSON(http.StatusForbidden, map[string]interface{}{"error": domain.ErrGuardViolation.Error(), "guards": quote.GuardsHit})
		}

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"orderId": "ORDER-" + uuid.NewString(),
			"quote":   quote,
		})
	}
}

func handleCouponValidate(c echo.Context) error {
	var req CouponValidationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payload inválido"})
	}
	fee := req.DeliveryFee
	if !req.HasDelivery {
		fee = 0
	}

	if err := calculator.Validate(req.Coupon, req.Subtotal, fee, req.HasDelivery); err != nil {
		body := map[string]interface{}{"eligible": false, "error": err.Error()}
		var inel *domain.CouponIneligibleError
		if errors.As(err, &inel) {
			body["reason"] = inel.Reason
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"eligible": true,
		"discount": calculator.Discount(req.Coupon, req.Subtotal, fee),
	})
}

func runQuote(ctx context.Context, svc interfaces.PricingFacade, req domain.QuoteRequest) (*domain.Quote, error) {
	start := time.Now()
	defer func() {
		metrics.QuoteDuration.Observe(time.Since(start).Seconds())
	}()
	return svc.Quote(ctx, req)
}

func requestContext(c echo.Context) context.Context {
	id := c.Response().Header().Get(echo.HeaderXRequestID)
	return logging.WithRequestID(c.Request().Context(), id)
}

func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrRulePackNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingRequiredSelection),
		errors.Is(err, domain.ErrCouponIneligible),
		errors.Is(err, domain.ErrRemoteRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":       c.Path(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).WithError(err).Error("Request failed")
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
