package usecase

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

type fakeBackend struct {
	cart     domain.CartSnapshot
	coupons  map[string]domain.Coupon
	failWith error
	calls    []string
	nextID   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{coupons: map[string]domain.Coupon{}}
}

func (f *fakeBackend) record(op string) error {
	f.calls = append(f.calls, op)
	return f.failWith
}

func (f *fakeBackend) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	if err := f.record("fetch"); err != nil {
		return domain.CartSnapshot{}, err
	}
	return f.cart, nil
}

func (f *fakeBackend) PersistLineAdd(ctx context.Context, line domain.CartLine) (domain.CartLine, error) {
	if err := f.record("add"); err != nil {
		return domain.CartLine{}, err
	}
	f.nextID++
	line.ID = fmt.Sprintf("srv-%d", f.nextID)
	f.cart.Lines = append(f.cart.Lines, line)
	return line, nil
}

func (f *fakeBackend) PersistLineUpdate(ctx context.Context, lineID string, quantity int) error {
	if err := f.record("update"); err != nil {
		return err
	}
	for i := range f.cart.Lines {
		if f.cart.Lines[i].ID == lineID {
			f.cart.Lines[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeBackend) PersistLineRemove(ctx context.Context, lineID string) error {
	return f.record("remove")
}

func (f *fakeBackend) PersistCouponApply(ctx context.Context, code string) (domain.Coupon, error) {
	if err := f.record("coupon_apply"); err != nil {
		return domain.Coupon{}, err
	}
	c, ok := f.coupons[code]
	if !ok {
		return domain.Coupon{}, domain.ErrRemoteRejected
	}
	f.cart.AppliedCoupon = &c
	return c, nil
}

func (f *fakeBackend) PersistCouponRemove(ctx context.Context) error {
	return f.record("coupon_remove")
}

func (f *fakeBackend) FetchAvailableCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if err := f.record("coupons"); err != nil {
		return nil, err
	}
	var out []domain.Coupon
	for _, c := range f.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeBackend) ValidateCouponRemotely(ctx context.Context, code string, orderValue domain.Money) (domain.RemoteCouponValidation, error) {
	if err := f.record("validate"); err != nil {
		return domain.RemoteCouponValidation{}, err
	}
	c, ok := f.coupons[code]
	if !ok {
		return domain.RemoteCouponValidation{}, domain.ErrRemoteRejected
	}
	// A deliberately wrong figure: the engine must not display it.
	return domain.RemoteCouponValidation{Coupon: c, ComputedDiscount: 1}, nil
}

type fakeLoader struct {
	pack *domain.RulePackDefinition
}

func (f fakeLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if f.pack == nil {
		return nil, domain.ErrRulePackNotFound
	}
	return f.pack, nil
}

type recordingObserver struct {
	operations []string
	traces     []domain.Trace
}

func (r *recordingObserver) Observe(ctx context.Context, operation string, trace domain.Trace) {
	r.operations = append(r.operations, operation)
	r.traces = append(r.traces, trace)
}
