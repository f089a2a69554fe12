package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

const defaultGuardMessage = "Condição restritiva atingida"

type PricingService struct {
	loader         interfaces.RulePackLoader
	executor       interfaces.RuleExecutor
	defaultVersion string
	defaultFee     domain.Money
	observers      []interfaces.TraceObserver
}

type PricingOption func(*PricingService)

// WithDefaults sets the rule pack version used when a request names none and
// the delivery fee used when no delivery rule yields one.
func WithDefaults(version string, fee domain.Money) PricingOption {
	return func(s *PricingService) {
		s.defaultVersion = version
		s.defaultFee = fee
	}
}

func WithObservers(observers ...interfaces.TraceObserver) PricingOption {
	return func(s *PricingService) {
		s.observers = append(s.observers, observers...)
	}
}

func NewPricingService(loader interfaces.RulePackLoader, executor interfaces.RuleExecutor, opts ...PricingOption) interfaces.PricingFacade {
	s := &PricingService{loader: loader, executor: executor, defaultVersion: "v1"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote prices a cart: delivery fee from the rule pack, coupon and totals from
// the calculator, then guards over the result. An ineligible coupon is
// reported in the quote, it never fails it.
func (s *PricingService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	version := req.RulesVersion
	if version == "" {
		version = s.defaultVersion
	}

	for _, l := range req.Lines {
		if l.Quantity < 1 {
			return nil, errors.Wrapf(domain.ErrInvalidQuantity, "line %q", l.ID)
		}
	}

	rulePack, err := s.loader.Load(ctx, version)
	if err != nil {
		return nil, err
	}

	cart := calculator.NewCart(domain.CartSnapshot{Lines: req.Lines, AppliedCoupon: req.Coupon})

	var trace domain.Trace
	fee := s.deliveryFee(ctx, rulePack, cart, req.HasDelivery, &trace)

	res := calculator.Compute(cart, fee, req.HasDelivery)
	trace.Append(res.Trace)

	guards := s.runGuards(ctx, rulePack, cart, req, res.Totals, &trace)

	quote := &domain.Quote{
		Totals:       res.Totals,
		Coupon:       cart.Coupon(),
		GuardsHit:    guards,
		Trace:        trace,
		RulesVersion: rulePack.Version,
	}
	if res.CouponError != nil {
		quote.CouponError = res.CouponError.Error()
	}

	for _, o := range s.observers {
		o.Observe(ctx, "quote", trace)
	}
	return quote, nil
}

func (s *PricingService) deliveryFee(ctx context.Context, pack *domain.RulePackDefinition, cart calculator.Cart, hasDelivery bool, trace *domain.Trace) domain.Money {
	if !hasDelivery {
		trace.Add(domain.PhaseDelivery, "no delivery", 0)
		return 0
	}

	vars := map[string]interface{}{"cart": cartVars(cart, hasDelivery)}
	for _, rule := range rulesFor(pack.Rules, domain.PhaseDelivery) {
		out, err := s.executor.Execute(ctx, rule.Logic, vars)
		if err != nil {
			trace.AddRule(domain.PhaseDelivery, rule.ID, err.Error(), 0)
			continue
		}
		cents, ok := toCents(out)
		if !ok {
			trace.AddRule(domain.PhaseDelivery, rule.ID, "non-numeric result", 0)
			continue
		}
		fee := domain.MaxMoney(0, cents)
		trace.AddRule(domain.PhaseDelivery, rule.ID, "fee from rule", fee)
		return fee
	}

	trace.Add(domain.PhaseDelivery, "default fee", s.defaultFee)
	return s.defaultFee
}

func (s *PricingService) runGuards(ctx context.Context, pack *domain.RulePackDefinition, cart calculator.Cart, req domain.QuoteRequest, totals domain.CartTotals, trace *domain.Trace) []domain.GuardViolation {
	vars := map[string]interface{}{
		"cart": cartVars(cart, req.HasDelivery),
		"totals": map[string]interface{}{
			"subtotal":    int64(totals.Subtotal),
			"deliveryFee": int64(totals.DeliveryFee),
			"discount":    int64(totals.Discount),
			"total":       int64(totals.Total),
		},
	}
	if c := cart.Coupon(); c != nil {
		vars["coupon"] = map[string]interface{}{"code": c.Code, "kind": string(c.Kind), "amount": c.Amount}
	}

	guardsHit := []domain.GuardViolation{}
	for _, rule := range rulesFor(pack.Rules, domain.PhaseGuards) {
		out, err := s.executor.Execute(ctx, rule.Logic, vars)
		if err != nil {
			continue
		}
		if v, ok := out.(bool); ok && v {
			// Captura a mensagem personalizada da regra ou usa uma padrão
			msg := rule.ErrorMessage
			if msg == "" {
				msg = defaultGuardMessage
			}
			guardsHit = append(guardsHit, domain.GuardViolation{
				RuleID:  rule.ID,
				Reason:  "Violation Detected",
				Context: msg,
			})
			trace.AddRule(domain.PhaseGuards, rule.ID, msg, 0)
		}
	}
	return guardsHit
}

func cartVars(cart calculator.Cart, hasDelivery bool) map[string]interface{} {
	lines := cart.Lines()
	out := make([]interface{}, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]interface{}{
			"id":        l.ID,
			"productId": l.SourceProductID,
			"quantity":  l.Quantity,
			"unitPrice": int64(l.UnitFinalPrice),
			"total":     int64(l.LineTotal()),
		})
	}
	return map[string]interface{}{
		"subtotal":    int64(cart.Subtotal()),
		"itemCount":   cart.ItemCount(),
		"lineCount":   len(lines),
		"hasDelivery": hasDelivery,
		"lines":       out,
	}
}

func rulesFor(rules []domain.RuleConfig, phase string) []domain.RuleConfig {
	var f []domain.RuleConfig
	for _, r := range rules {
		if r.Phase == phase {
			f = append(f, r)
		}
	}
	return f
}

// toCents accepts the numeric shapes a rule can yield; fractional results are
// rounded half away from zero.
func toCents(v interface{}) (domain.Money, bool) {
	switch n := v.(type) {
	case int64:
		return domain.Money(n), true
	case int:
		return domain.Money(n), true
	case float64:
		if n < 0 {
			return domain.Money(n - 0.5), true
		}
		return domain.Money(n + 0.5), true
	}
	return 0, false
}
