package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: time.Second, Breaker: BreakerSettings{Timeout: time.Minute}})
}

func TestClient_FetchCart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"lines": [{"id":"l1","product_id":"burger","title":"Burger","unit_base_price":1200,"unit_final_price":998,"unit_discount":202,"quantity":2,
				"customizations":[{"label":"Size","value":"Large","additional_price":400}]}],
			"applied_coupon": {"id":"c1","code":"TEN","type":"percent","value":10,"min_order_value":1000}
		}`))
	}))

	snap, err := client.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, domain.Money(998), snap.Lines[0].UnitFinalPrice)
	assert.Equal(t, "burger", snap.Lines[0].SourceProductID)
	assert.Equal(t, domain.Money(400), snap.Lines[0].Customizations[0].AdditionalPrice)

	require.NotNil(t, snap.AppliedCoupon)
	assert.Equal(t, domain.DiscountPercentage, snap.AppliedCoupon.Kind)
	assert.Equal(t, int64(10), snap.AppliedCoupon.Amount)
	require.NotNil(t, snap.AppliedCoupon.Conditions.MinOrderValue)
	assert.Equal(t, domain.Money(1000), *snap.AppliedCoupon.Conditions.MinOrderValue)
}

func TestClient_PersistLineAdd(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in lineDTO
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "srv-1"
		_ = json.NewEncoder(w).Encode(in)
	}))

	line, err := client.PersistLineAdd(context.Background(), domain.CartLine{SourceProductID: "burger", Title: "Burger", UnitFinalPrice: 1798, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", line.ID)
	assert.Equal(t, domain.Money(1798), line.UnitFinalPrice)
}

func TestClient_Errors(t *testing.T) {
	t.Run("server error is unavailable", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		err := client.PersistLineRemove(context.Background(), "l1")
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	})

	t.Run("client error is rejected with message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"coupon expired"}`))
		}))
		_, err := client.PersistCouponApply(context.Background(), "OLD")
		assert.ErrorIs(t, err, domain.ErrRemoteRejected)
		assert.Contains(t, err.Error(), "coupon expired")
	})

	t.Run("unreachable backend", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
		_, err := client.FetchCart(context.Background())
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	})
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 3; i++ {
		_, err := client.FetchCart(context.Background())
		require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	}
	assert.Equal(t, 1, client.Breaker().StateValue())

	_, err := client.FetchCart(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "is open")
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClient_RejectionsKeepBreakerClosed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	for i := 0; i < 5; i++ {
		err := client.PersistLineUpdate(context.Background(), "missing", 2)
		require.ErrorIs(t, err, domain.ErrRemoteRejected)
	}
	assert.Equal(t, 0, client.Breaker().StateValue())
}

func TestClient_ValidateCouponRemotely(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in validateRequestDTO
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Code == "BAD" {
			_, _ = w.Write([]byte(`{"valid":false,"message":"not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"valid":true,"computed_discount":1999,
			"coupon":{"id":"c","code":"TAKE20","discount_type":"fixed","discount_value":2000,
				"conditions":{"max_discount_value":0,"delivery_required":true}}}`))
	}))

	res, err := client.ValidateCouponRemotely(context.Background(), "TAKE20", 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountFixed, res.Coupon.Kind)
	assert.Equal(t, domain.Money(1999), res.ComputedDiscount)
	require.NotNil(t, res.Coupon.Conditions.MaxDiscountValue)
	assert.Equal(t, domain.Money(0), *res.Coupon.Conditions.MaxDiscountValue)
	assert.True(t, res.Coupon.Conditions.DeliveryRequired)

	_, err = client.ValidateCouponRemotely(context.Background(), "BAD", 5000)
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)
}

func TestClient_FetchAvailableCoupons(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a","code":"A","discount_type":"fixed","discount_value":500},{"id":"b","code":"B","type":"bogo","value":1}]`))
	}))
	coupons, err := client.FetchAvailableCoupons(context.Background())
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, domain.DiscountFixed, coupons[0].Kind)
	assert.Equal(t, domain.DiscountKind("unknown:bogo"), coupons[1].Kind)
	assert.False(t, coupons[1].Kind.Recognized())
}
