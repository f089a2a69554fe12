package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

func setupCart(t *testing.T) (*CartService, *fakeBackend) {
	backend := newFakeBackend()
	backend.coupons["TAKE20"] = domain.Coupon{ID: "1", Code: "TAKE20", Kind: domain.DiscountFixed, Amount: 2000}
	backend.coupons["BIG"] = domain.Coupon{ID: "2", Code: "BIG", Kind: domain.DiscountFixed, Amount: 500,
		Conditions: domain.CouponConditions{MinOrderValue: domain.MoneyPtr(100000)}}
	backend.coupons["SHIP"] = domain.Coupon{ID: "3", Code: "SHIP", Kind: domain.DiscountPercentage, Amount: 10,
		Conditions: domain.CouponConditions{DeliveryRequired: true}}
	return NewCartService(backend, newPricing(t, WithDefaults("v1", 900)), "v1"), backend
}

func keyed(key string, price domain.Money, qty int) domain.CartLine {
	return domain.CartLine{SourceProductID: "burger", Key: key, Title: "Burger", UnitFinalPrice: price, UnitBasePrice: price, Quantity: qty}
}

func TestCartService_AddLine(t *testing.T) {
	svc, backend := setupCart(t)
	ctx := context.Background()

	first, err := svc.AddLine(ctx, keyed("burger|size=large|", 2500, 1))
	require.NoError(t, err)
	assert.Equal(t, "srv-1", first.ID)

	merged, err := svc.AddLine(ctx, keyed("burger|size=large|", 2500, 1))
	require.NoError(t, err)
	assert.Equal(t, "srv-1", merged.ID)
	assert.Equal(t, 2, merged.Quantity)
	assert.Equal(t, []string{"add", "update"}, backend.calls)

	q, err := svc.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CartTotals{Subtotal: 5000, DeliveryFee: 900, Total: 5900}, q.Totals)

	_, err = svc.AddLine(ctx, keyed("k", 100, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCartService_RemoteFailureLeavesStateUnchanged(t *testing.T) {
	svc, backend := setupCart(t)
	ctx := context.Background()
	line, err := svc.AddLine(ctx, keyed("a", 1000, 1))
	require.NoError(t, err)
	before := svc.Snapshot()

	backend.failWith = domain.ErrRemoteUnavailable

	_, err = svc.AddLine(ctx, keyed("b", 1000, 1))
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, line.ID, 5), domain.ErrRemoteUnavailable)
	assert.ErrorIs(t, svc.RemoveLine(ctx, line.ID), domain.ErrRemoteUnavailable)
	_, err = svc.ApplyCoupon(ctx, "TAKE20")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	_, err = svc.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)

	assert.Equal(t, before, svc.Snapshot())
}

func TestCartService_QuantityAndRemoval(t *testing.T) {
	svc, backend := setupCart(t)
	ctx := context.Background()
	line, _ := svc.AddLine(ctx, keyed("a", 1000, 1))

	require.NoError(t, svc.UpdateQuantity(ctx, line.ID, 3))
	assert.Equal(t, 3, svc.Snapshot().Lines[0].Quantity)

	require.NoError(t, svc.UpdateQuantity(ctx, line.ID, 0))
	assert.Empty(t, svc.Snapshot().Lines)
	assert.Equal(t, "remove", backend.calls[len(backend.calls)-1])

	assert.ErrorIs(t, svc.RemoveLine(ctx, "ghost"), domain.ErrLineNotFound)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "ghost", 2), domain.ErrLineNotFound)
}

func TestCartService_ApplyCoupon(t *testing.T) {
	svc, backend := setupCart(t)
	ctx := context.Background()
	_, err := svc.AddLine(ctx, keyed("a", 2500, 2))
	require.NoError(t, err)

	coupon, err := svc.ApplyCoupon(ctx, "TAKE20")
	require.NoError(t, err)
	assert.Equal(t, "TAKE20", coupon.Code)

	q, err := svc.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(2000), q.Totals.Discount, "local computation, not the remote figure")
	assert.Equal(t, domain.Money(3900), q.Totals.Total)

	t.Run("locally ineligible is never persisted", func(t *testing.T) {
		calls := len(backend.calls)
		_, err := svc.ApplyCoupon(ctx, "BIG")
		var inel *domain.CouponIneligibleError
		require.ErrorAs(t, err, &inel)
		assert.Equal(t, domain.BelowMinimum, inel.Reason)
		assert.Equal(t, []string{"validate"}, backend.calls[calls:])
		assert.Equal(t, "TAKE20", svc.Snapshot().AppliedCoupon.Code)
	})

	t.Run("requires delivery", func(t *testing.T) {
		svc.SetDelivery(false)
		defer svc.SetDelivery(true)
		_, err := svc.ApplyCoupon(ctx, "SHIP")
		assert.ErrorIs(t, err, domain.ErrCouponIneligible)
	})

	t.Run("remote rejection", func(t *testing.T) {
		_, err := svc.ApplyCoupon(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrRemoteRejected)
	})

	t.Run("replace then remove", func(t *testing.T) {
		_, err := svc.ApplyCoupon(ctx, "SHIP")
		require.NoError(t, err)
		assert.Equal(t, "SHIP", svc.Snapshot().AppliedCoupon.Code)

		require.NoError(t, svc.RemoveCoupon(ctx))
		assert.Nil(t, svc.Snapshot().AppliedCoupon)
	})
}

func TestCartService_Refresh(t *testing.T) {
	svc, backend := setupCart(t)
	ctx := context.Background()

	backend.cart = domain.CartSnapshot{Lines: []domain.CartLine{{ID: "x", SourceProductID: "p", Title: "P", UnitFinalPrice: 700, Quantity: 2}}}

	res, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, res.ServerDelta)
	assert.Contains(t, string(res.Patch), "lines")
	assert.Len(t, svc.Snapshot().Lines, 1)

	res, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, res.ServerDelta)

	coupons, err := svc.AvailableCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 3)
}
