package metrics

import (
	"context"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
)

// TraceCollector turns pricing traces into coupon and guard counters.
type TraceCollector struct{}

func (TraceCollector) Observe(_ context.Context, _ string, trace domain.Trace) {
	for _, step := range trace.Steps {
		switch step.Phase {
		case calculator.PhaseCouponDiscount:
			CouponOutcomes.WithLabelValues("applied").Inc()
		case calculator.PhaseCouponValidate:
			CouponOutcomes.WithLabelValues("ineligible").Inc()
		case calculator.PhaseCouponUnknown:
			CouponOutcomes.WithLabelValues("unrecognized").Inc()
		case domain.PhaseGuards:
			GuardsHit.WithLabelValues(step.RuleID).Inc()
		}
	}
}
