package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Victor-armando18/service-pricing/internal/config"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/backend"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/logging"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/yaml"
	"github.com/Victor-armando18/service-pricing/internal/usecase"
	"github.com/Victor-armando18/service-pricing/pkg/pricing"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.WithError(err).Error("pricing-cli failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	rulesFlags := []cli.Flag{
		&cli.StringFlag{Name: "rules-dir", Value: "pkg/rules", EnvVars: []string{"PRICING_RULES_DIR"}, Usage: "directory holding <version>_rules.{json,yaml}"},
		&cli.StringFlag{Name: "rules-version", Value: "v1", EnvVars: []string{"PRICING_RULES_VERSION"}, Usage: "rule pack version"},
		&cli.BoolFlag{Name: "no-delivery", Usage: "price the order as a pickup"},
	}

	return &cli.App{
		Name:  "pricing-cli",
		Usage: "diagnostic tool for the pricing engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"PRICING_LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), false, c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "configure",
				Usage: "configure a catalog product and commit it as a cart line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "catalog", Value: "pkg/fixtures/catalog.yaml"},
					&cli.StringFlag{Name: "product", Required: true},
					&cli.StringSliceFlag{Name: "select", Usage: "section=option, toggles a selection (repeatable)"},
					&cli.StringSliceFlag{Name: "quantity", Usage: "section.option=n (repeatable)"},
					&cli.IntFlag{Name: "qty", Value: 1, Usage: "number of units of the product"},
				},
				Action: runConfigure,
			},
			{
				Name:   "quote",
				Usage:  "price a cart file through the rule pack",
				Flags:  append([]cli.Flag{&cli.StringFlag{Name: "cart", Value: "pkg/fixtures/cart.yaml"}, &cli.StringFlag{Name: "coupon"}}, rulesFlags...),
				Action: runQuote,
			},
			{
				Name:  "sync",
				Usage: "pull the cart from the backend, optionally apply a coupon, and print totals",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "backend", Usage: "backend base URL, overrides PRICING_BACKEND_URL"},
					&cli.DurationFlag{Name: "timeout", Usage: "backend timeout, overrides PRICING_BACKEND_TIMEOUT"},
					&cli.StringFlag{Name: "coupon", Usage: "coupon code to validate and apply"},
					&cli.BoolFlag{Name: "list-coupons"},
				}, rulesFlags...),
				Action: runSync,
			},
		},
	}
}

func runConfigure(c *cli.Context) error {
	catalog, err := yaml.LoadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}
	product, ok := catalog.Product(c.String("product"))
	if !ok {
		return cli.Exit(fmt.Sprintf("produto %q não existe no catálogo", c.String("product")), 1)
	}

	cfgr, cfg := pricing.Configure(product)
	for _, s := range c.StringSlice("select") {
		section, option, ok := strings.Cut(s, "=")
		if !ok {
			return cli.Exit(fmt.Sprintf("--select espera section=option, recebeu %q", s), 1)
		}
		cfg = cfgr.SelectOption(cfg, section, option)
	}
	for _, s := range c.StringSlice("quantity") {
		target, n, ok := strings.Cut(s, "=")
		section, option, ok2 := strings.Cut(target, ".")
		q, err := strconv.Atoi(n)
		if !ok || !ok2 || err != nil {
			return cli.Exit(fmt.Sprintf("--quantity espera section.option=n, recebeu %q", s), 1)
		}
		cfg = cfgr.SetQuantity(cfg, section, option, q)
	}

	line, commitErr := cfgr.Commit(cfg, c.Int("qty"))
	displayConfiguration(c.App.Writer, cfgr, cfg, c.Int("qty"), line, commitErr)
	if commitErr != nil {
		return cli.Exit(commitErr.Error(), 2)
	}
	return nil
}

func runQuote(c *cli.Context) error {
	snapshot, err := yaml.LoadCart(c.String("cart"))
	if err != nil {
		return err
	}
	if path := c.String("coupon"); path != "" {
		coupon, err := yaml.LoadCoupon(path)
		if err != nil {
			return err
		}
		snapshot.AppliedCoupon = &coupon
	}

	engine := pricing.New(pricing.Options{
		RulesDir:     c.String("rules-dir"),
		RulesVersion: c.String("rules-version"),
		Observers:    []pricing.TraceObserver{logging.NewTraceLogger(nil)},
	})
	quote, err := engine.Quote(c.Context, pricing.QuoteRequest{
		Lines:       snapshot.Lines,
		Coupon:      snapshot.AppliedCoupon,
		HasDelivery: !c.Bool("no-delivery"),
	})
	if err != nil {
		return err
	}

	displayExecutionSummary(c.App.Writer, quote, nil)
	return nil
}

func runSync(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags têm precedência sobre o ambiente
	backendCfg := cfg.Backend()
	if c.IsSet("backend") {
		backendCfg.BaseURL = c.String("backend")
	}
	if c.IsSet("timeout") {
		backendCfg.Timeout = c.Duration("timeout")
	}
	if backendCfg.BaseURL == "" {
		return cli.Exit("--backend ou PRICING_BACKEND_URL é obrigatório", 1)
	}
	client := backend.NewClient(backendCfg)

	loader := infrastructure.NewFileRuleLoader(c.String("rules-dir"))
	version := infrastructure.NormalizeVersion(c.String("rules-version"))
	pricingSvc := usecase.NewPricingService(loader, infrastructure.NewJsonLogicExecutor(),
		usecase.WithDefaults(version, cfg.DefaultDeliveryFee()),
		usecase.WithObservers(logging.NewTraceLogger(nil)),
	)

	cart := usecase.NewCartService(client, pricingSvc, version)
	cart.SetDelivery(!c.Bool("no-delivery"))

	refresh, err := cart.Refresh(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("list-coupons") {
		coupons, err := cart.AvailableCoupons(c.Context)
		if err != nil {
			return err
		}
		displayCoupons(c.App.Writer, coupons)
	}

	if code := c.String("coupon"); code != "" {
		if _, err := cart.ApplyCoupon(c.Context, code); err != nil {
			log.WithFields(log.Fields{"code": code}).WithError(err).Warn("Coupon not applied")
			fmt.Fprintf(c.App.Writer, "\n❌ Cupão %s recusado: %v\n", code, err)
		}
	}

	quote, err := cart.Totals(c.Context)
	if err != nil {
		return err
	}
	displayExecutionSummary(c.App.Writer, quote, &refresh)
	return nil
}
