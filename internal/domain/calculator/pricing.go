package calculator

import (
	"fmt"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

const (
	PhaseSubtotal       = "subtotal"
	PhaseCouponValidate = "coupon.validate"
	PhaseCouponDiscount = "coupon.discount"
	PhaseCouponUnknown  = "coupon.unrecognized"
	PhaseTotals         = "totals"
)

func Subtotal(lines []domain.CartLine) domain.Money {
	var s domain.Money
	for _, l := range lines {
		s += l.LineTotal()
	}
	return s
}

// Validate checks coupon eligibility: minimum order value first, then the
// delivery requirement. It returns nil or a *domain.CouponIneligibleError.
func Validate(coupon domain.Coupon, subtotal, deliveryFee domain.Money, hasDelivery bool) error {
	cond := coupon.Conditions
	if cond.MinOrderValue != nil && subtotal < *cond.MinOrderValue {
		return &domain.CouponIneligibleError{Code: coupon.Code, Reason: domain.BelowMinimum}
	}
	if cond.DeliveryRequired && !hasDelivery {
		return &domain.CouponIneligibleError{Code: coupon.Code, Reason: domain.DeliveryRequired}
	}
	return nil
}

// Breakdown exposes every intermediate figure of a discount computation.
type Breakdown struct {
	Base       domain.Money
	Raw        domain.Money
	Cap        domain.Money
	Discount   domain.Money
	Recognized bool
}

// Discount computes the amount a coupon takes off. The result is never
// negative and never exceeds the cap derived from the delivery-inclusion rule.
// Unrecognized kinds yield zero.
func Discount(coupon domain.Coupon, subtotal, deliveryFee domain.Money) domain.Money {
	return Explain(coupon, subtotal, deliveryFee).Discount
}

func Explain(coupon domain.Coupon, subtotal, deliveryFee domain.Money) Breakdown {
	cond := coupon.Conditions

	base := subtotal + deliveryFee
	if cond.DeliveryNotIncluded {
		base = subtotal
	}
	b := Breakdown{Base: base, Cap: base}

	switch coupon.Kind {
	case domain.DiscountFixed:
		b.Raw = domain.Money(coupon.Amount)
	case domain.DiscountPercentage:
		b.Raw = floorDiv(base*domain.Money(coupon.Amount), 100)
	default:
		return b
	}
	b.Recognized = true

	if cond.MaxDiscountValue != nil {
		b.Raw = domain.MinMoney(b.Raw, *cond.MaxDiscountValue)
	}
	b.Discount = domain.MaxMoney(0, domain.MinMoney(b.Raw, b.Cap))
	return b
}

func floorDiv(a, b domain.Money) domain.Money {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Result is the outcome of pricing a whole cart.
type Result struct {
	Totals      domain.CartTotals
	CouponError error
	Trace       domain.Trace
}

// Compute prices the cart: subtotal, coupon eligibility, discount and total.
// An ineligible coupon contributes nothing and is reported in CouponError.
func Compute(cart Cart, deliveryFee domain.Money, hasDelivery bool) Result {
	var res Result
	subtotal := cart.Subtotal()
	res.Trace.Add(PhaseSubtotal, fmt.Sprintf("%d lines, %d items", len(cart.lines), cart.ItemCount()), subtotal)

	var discount domain.Money
	if coupon := cart.Coupon(); coupon != nil {
		if err := Validate(*coupon, subtotal, deliveryFee, hasDelivery); err != nil {
			res.CouponError = err
			res.Trace.Add(PhaseCouponValidate, err.Error(), 0)
		} else {
			b := Explain(*coupon, subtotal, deliveryFee)
			if !b.Recognized {
				res.CouponError = fmt.Errorf("%w: %q", domain.ErrCouponKindUnrecognized, coupon.Kind)
				res.Trace.Add(PhaseCouponUnknown, res.CouponError.Error(), 0)
			} else {
				res.Trace.Add(PhaseCouponDiscount,
					fmt.Sprintf("%s %s: base %s raw %s cap %s", coupon.Code, coupon.Kind, b.Base, b.Raw, b.Cap), b.Discount)
			}
			discount = b.Discount
		}
	}

	res.Totals = domain.CartTotals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       subtotal + deliveryFee - discount,
	}
	res.Trace.Add(PhaseTotals, "total", res.Totals.Total)
	return res
}
