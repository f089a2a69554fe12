package pricing

import (
	"context"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
	"github.com/Victor-armando18/service-pricing/internal/domain/configurator"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
	"github.com/Victor-armando18/service-pricing/internal/usecase"
)

// Options configure an Engine. Zero values fall back to pkg/rules, v1 and a
// 9.00 delivery fee.
type Options struct {
	RulesDir     string
	RulesVersion string
	DeliveryFee  *Money
	Observers    []TraceObserver
}

// Engine is the entry point for Go callers embedding the pricing engine.
type Engine struct {
	facade interfaces.PricingFacade
}

func New(opts Options) *Engine {
	version := opts.RulesVersion
	if version == "" {
		version = "v1"
	}
	fee := Money(900)
	if opts.DeliveryFee != nil {
		fee = *opts.DeliveryFee
	}

	loader := infrastructure.NewFileRuleLoader(opts.RulesDir)
	executor := infrastructure.NewJsonLogicExecutor()
	return &Engine{
		facade: usecase.NewPricingService(loader, executor,
			usecase.WithDefaults(infrastructure.NormalizeVersion(version), fee),
			usecase.WithObservers(opts.Observers...)),
	}
}

func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	return e.facade.Quote(ctx, req)
}

// Configure starts a configuration session for a product.
func Configure(product Product) (*Configurator, Configuration) {
	c := configurator.New(product)
	return c, c.Init()
}

// Totals prices lines and an optional coupon with a fixed delivery fee,
// without rule packs.
func Totals(lines []CartLine, coupon *Coupon, deliveryFee Money, hasDelivery bool) (CartTotals, error) {
	cart := calculator.NewCart(domain.CartSnapshot{Lines: lines, AppliedCoupon: coupon})
	res := calculator.Compute(cart, deliveryFee, hasDelivery)
	return res.Totals, res.CouponError
}

func Discount(coupon Coupon, subtotal, deliveryFee Money) Money {
	return calculator.Discount(coupon, subtotal, deliveryFee)
}

func ValidateCoupon(coupon Coupon, subtotal, deliveryFee Money, hasDelivery bool) error {
	return calculator.Validate(coupon, subtotal, deliveryFee, hasDelivery)
}
