package calculator_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
)

func fixed(amount int64) domain.Coupon {
	return domain.Coupon{ID: "c1", Code: "FIXED", Kind: domain.DiscountFixed, Amount: amount}
}

func percent(pct int64) domain.Coupon {
	return domain.Coupon{ID: "c2", Code: "PCT", Kind: domain.DiscountPercentage, Amount: pct}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name      string
		coupon    domain.Coupon
		subtotal  domain.Money
		delivery  domain.Money
		want      domain.Money
		recognize bool
	}{
		{"fixed below cap", fixed(2000), 5000, 900, 2000, true},
		{"fixed above cap includes delivery", fixed(9000), 5000, 900, 5900, true},
		{"percentage floors", percent(15), 999, 0, 149, true},
		{"percentage over base with delivery", percent(10), 3000, 900, 390, true},
		{"unknown kind is zero", domain.Coupon{Kind: "bogus", Amount: 500}, 5000, 900, 0, false},
		{"negative fixed clamps to zero", fixed(-300), 5000, 900, 0, true},
		{"percentage above 100 capped", percent(150), 1000, 200, 1200, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := calculator.Explain(tc.coupon, tc.subtotal, tc.delivery)
			assert.Equal(t, tc.want, b.Discount)
			assert.Equal(t, tc.recognize, b.Recognized)
			assert.Equal(t, tc.want, calculator.Discount(tc.coupon, tc.subtotal, tc.delivery))
		})
	}
}

func TestDiscount_DeliveryNotIncluded(t *testing.T) {
	c := percent(10)
	c.Conditions = domain.CouponConditions{MaxDiscountValue: domain.MoneyPtr(250), DeliveryNotIncluded: true}

	b := calculator.Explain(c, 3000, 900)
	assert.Equal(t, domain.Money(3000), b.Base)
	assert.Equal(t, domain.Money(250), b.Raw)
	assert.Equal(t, domain.Money(250), b.Discount)

	f := fixed(4000)
	f.Conditions.DeliveryNotIncluded = true
	assert.Equal(t, domain.Money(3000), calculator.Discount(f, 3000, 900))
}

func TestDiscount_ExplicitZeroMax(t *testing.T) {
	c := percent(50)
	c.Conditions.MaxDiscountValue = domain.MoneyPtr(0)
	assert.Equal(t, domain.Money(0), calculator.Discount(c, 3000, 0))
}

func TestValidate(t *testing.T) {
	c := fixed(100)
	c.Conditions.MinOrderValue = domain.MoneyPtr(1000)

	err := calculator.Validate(c, 500, 900, true)
	var inel *domain.CouponIneligibleError
	require.ErrorAs(t, err, &inel)
	assert.Equal(t, domain.BelowMinimum, inel.Reason)

	assert.NoError(t, calculator.Validate(c, 1000, 900, true))

	d := fixed(100)
	d.Conditions.DeliveryRequired = true
	err = calculator.Validate(d, 5000, 0, false)
	require.ErrorAs(t, err, &inel)
	assert.Equal(t, domain.DeliveryRequired, inel.Reason)
	assert.NoError(t, calculator.Validate(d, 5000, 900, true))
}

func TestCompute(t *testing.T) {
	cart := calculator.NewCart(domain.CartSnapshot{Lines: []domain.CartLine{
		{ID: "a", SourceProductID: "p1", UnitFinalPrice: 2500, Quantity: 2},
	}})

	t.Run("fixed coupon with delivery", func(t *testing.T) {
		res := calculator.Compute(cart.ApplyCoupon(fixed(2000)), 900, true)
		assert.Equal(t, domain.CartTotals{Subtotal: 5000, DeliveryFee: 900, Discount: 2000, Total: 3900}, res.Totals)
		assert.NoError(t, res.CouponError)
		assert.NotEmpty(t, res.Trace.Steps)
	})

	t.Run("ineligible coupon contributes nothing", func(t *testing.T) {
		c := fixed(2000)
		c.Conditions.MinOrderValue = domain.MoneyPtr(10000)
		res := calculator.Compute(cart.ApplyCoupon(c), 900, true)
		assert.ErrorIs(t, res.CouponError, domain.ErrCouponIneligible)
		assert.Equal(t, domain.Money(5900), res.Totals.Total)
	})

	t.Run("unrecognized kind", func(t *testing.T) {
		res := calculator.Compute(cart.ApplyCoupon(domain.Coupon{Code: "X", Kind: "bogus", Amount: 500}), 900, true)
		assert.ErrorIs(t, res.CouponError, domain.ErrCouponKindUnrecognized)
		assert.Equal(t, domain.Money(0), res.Totals.Discount)
		assert.Contains(t, phases(res.Trace), calculator.PhaseCouponUnknown)
	})

	t.Run("no coupon", func(t *testing.T) {
		res := calculator.Compute(cart, 0, false)
		assert.Equal(t, domain.Money(5000), res.Totals.Total)
	})
}

func TestComputeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		subtotal := domain.Money(rng.Intn(20000))
		delivery := domain.Money(rng.Intn(1500))

		var coupon domain.Coupon
		if rng.Intn(2) == 0 {
			coupon = fixed(int64(rng.Intn(30000)))
		} else {
			coupon = percent(int64(rng.Intn(130)))
		}
		if rng.Intn(2) == 0 {
			coupon.Conditions.MaxDiscountValue = domain.MoneyPtr(domain.Money(rng.Intn(5000)))
		}
		coupon.Conditions.DeliveryNotIncluded = rng.Intn(2) == 0

		cart := calculator.NewCart(domain.CartSnapshot{Lines: []domain.CartLine{
			{ID: "l", UnitFinalPrice: subtotal, Quantity: 1},
		}}).ApplyCoupon(coupon)
		res := calculator.Compute(cart, delivery, true)
		tot := res.Totals

		cap := subtotal + delivery
		if coupon.Conditions.DeliveryNotIncluded {
			cap = subtotal
		}
		require.GreaterOrEqual(t, tot.Discount, domain.Money(0))
		require.LessOrEqual(t, tot.Discount, cap)
		require.LessOrEqual(t, tot.Discount, tot.Subtotal+tot.DeliveryFee)
		require.Equal(t, tot.Subtotal+tot.DeliveryFee-tot.Discount, tot.Total)
		require.GreaterOrEqual(t, tot.Total, domain.Money(0))
		if coupon.Conditions.MaxDiscountValue != nil {
			require.LessOrEqual(t, tot.Discount, *coupon.Conditions.MaxDiscountValue)
		}
		if coupon.Kind == domain.DiscountFixed {
			want := domain.MinMoney(domain.Money(coupon.Amount), cap)
			if coupon.Conditions.MaxDiscountValue != nil {
				want = domain.MinMoney(want, *coupon.Conditions.MaxDiscountValue)
			}
			require.Equal(t, want, tot.Discount)
		}
	}
}

func phases(tr domain.Trace) []string {
	out := make([]string, 0, len(tr.Steps))
	for _, s := range tr.Steps {
		out = append(out, s.Phase)
	}
	return out
}
