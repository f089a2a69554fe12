package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
)

func TestTraceCollector(t *testing.T) {
	applied := testutil.ToFloat64(CouponOutcomes.WithLabelValues("applied"))
	unknown := testutil.ToFloat64(CouponOutcomes.WithLabelValues("unrecognized"))
	guard := testutil.ToFloat64(GuardsHit.WithLabelValues("max-items"))

	var trace domain.Trace
	trace.Add(calculator.PhaseSubtotal, "1 lines", 100)
	trace.Add(calculator.PhaseCouponDiscount, "TAKE20", 20)
	trace.Add(calculator.PhaseCouponUnknown, "bogus", 0)
	trace.AddRule(domain.PhaseGuards, "max-items", "too many", 0)

	TraceCollector{}.Observe(context.Background(), "quote", trace)

	assert.Equal(t, applied+1, testutil.ToFloat64(CouponOutcomes.WithLabelValues("applied")))
	assert.Equal(t, unknown+1, testutil.ToFloat64(CouponOutcomes.WithLabelValues("unrecognized")))
	assert.Equal(t, guard+1, testutil.ToFloat64(GuardsHit.WithLabelValues("max-items")))
}
