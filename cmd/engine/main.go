package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Victor-armando18/service-pricing/internal/config"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/logging"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/metrics"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
	"github.com/Victor-armando18/service-pricing/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, true, os.Stdout)

	loader := infrastructure.NewFileRuleLoader(cfg.RulesDir)
	executor := infrastructure.NewJsonLogicExecutor()

	pricingSvc := usecase.NewPricingService(loader, executor,
		usecase.WithDefaults(infrastructure.NormalizeVersion(cfg.RulesVersion), cfg.DefaultDeliveryFee()),
		usecase.WithObservers(logging.NewTraceLogger(nil), metrics.TraceCollector{}),
	)

	e := newServer(pricingSvc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.WithFields(log.Fields{
			"addr":          addr,
			"rules_dir":     cfg.RulesDir,
			"rules_version": cfg.RulesVersion,
		}).Info("Pricing engine starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

func newServer(svc interfaces.PricingFacade) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.POST("/configurations/price", handleConfigurationPrice)
	e.POST("/configurations/commit", handleConfigurationCommit)
	e.POST("/cart/quote", handleQuote(svc))
	e.PATCH("/cart", handlePatch(svc))
	e.POST("/cart/checkout", handleCheckout(svc))
	e.POST("/coupons/validate", handleCouponValidate)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
