package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/metrics"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

const DefaultTimeout = 3 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerSettings
}

// Client talks to the cart backend over HTTP/JSON. Every call goes through
// one circuit breaker; the client never retries on its own.
type Client struct {
	http    *resty.Client
	breaker *Breaker
}

var _ interfaces.Backend = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
		breaker: NewBreaker("cart-backend", cfg.Breaker),
	}
}

func (c *Client) Breaker() *Breaker {
	return c.breaker
}

func (c *Client) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	var out cartDTO
	if err := c.call(ctx, "fetch_cart", http.MethodGet, "/cart", nil, &out); err != nil {
		return domain.CartSnapshot{}, err
	}
	return toSnapshot(out), nil
}

func (c *Client) PersistLineAdd(ctx context.Context, line domain.CartLine) (domain.CartLine, error) {
	var out lineDTO
	if err := c.call(ctx, "line_add", http.MethodPost, "/cart/lines", fromLine(line), &out); err != nil {
		return domain.CartLine{}, err
	}
	return toLine(out), nil
}

func (c *Client) PersistLineUpdate(ctx context.Context, lineID string, quantity int) error {
	return c.call(ctx, "line_update", http.MethodPatch, "/cart/lines/"+lineID, quantityDTO{Quantity: quantity}, nil)
}

func (c *Client) PersistLineRemove(ctx context.Context, lineID string) error {
	return c.call(ctx, "line_remove", http.MethodDelete, "/cart/lines/"+lineID, nil, nil)
}

func (c *Client) PersistCouponApply(ctx context.Context, code string) (domain.Coupon, error) {
	var out couponDTO
	if err := c.call(ctx, "coupon_apply", http.MethodPost, "/cart/coupon", codeDTO{Code: code}, &out); err != nil {
		return domain.Coupon{}, err
	}
	return normalizeCoupon(out), nil
}

func (c *Client) PersistCouponRemove(ctx context.Context) error {
	return c.call(ctx, "coupon_remove", http.MethodDelete, "/cart/coupon", nil, nil)
}

func (c *Client) FetchAvailableCoupons(ctx context.Context) ([]domain.Coupon, error) {
	var out []couponDTO
	if err := c.call(ctx, "coupons_list", http.MethodGet, "/coupons", nil, &out); err != nil {
		return nil, err
	}
	coupons := make([]domain.Coupon, 0, len(out))
	for _, d := range out {
		coupons = append(coupons, normalizeCoupon(d))
	}
	return coupons, nil
}

func (c *Client) ValidateCouponRemotely(ctx context.Context, code string, orderValue domain.Money) (domain.RemoteCouponValidation, error) {
	var out validateResponseDTO
	req := validateRequestDTO{Code: code, OrderValue: int64(orderValue)}
	if err := c.call(ctx, "coupon_validate", http.MethodPost, "/coupons/validate", req, &out); err != nil {
		return domain.RemoteCouponValidation{}, err
	}
	if !out.Valid {
		msg := out.Message
		if msg == "" {
			msg = "coupon rejected"
		}
		return domain.RemoteCouponValidation{}, errors.Wrapf(domain.ErrRemoteRejected, "%s: %s", code, msg)
	}
	return domain.RemoteCouponValidation{
		Coupon:           normalizeCoupon(out.Coupon),
		ComputedDiscount: domain.Money(out.ComputedDiscount),
	}, nil
}

func (c *Client) call(ctx context.Context, operation, method, path string, body, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req := c.http.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}

		resp, httpErr := req.Execute(method, path)
		if httpErr != nil {
			return nil, errors.Wrapf(domain.ErrRemoteUnavailable, "%s: %v", operation, httpErr)
		}

		switch {
		case resp.StatusCode() >= http.StatusInternalServerError:
			return nil, errors.Wrapf(domain.ErrRemoteUnavailable, "%s: backend returned status %d", operation, resp.StatusCode())
		case resp.StatusCode() >= http.StatusBadRequest:
			return nil, errors.Wrapf(domain.ErrRemoteRejected, "%s: %s", operation, rejectionMessage(resp))
		}

		if out != nil && len(resp.Body()) > 0 {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return nil, errors.Wrapf(domain.ErrRemoteUnavailable, "%s: failed to parse response: %v", operation, err)
			}
		}
		return nil, nil
	})

	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			outcome = "unavailable"
		}
		log.WithFields(log.Fields{
			"operation": operation,
			"method":    method,
			"path":      path,
		}).WithError(err).Warn("Backend call failed")
	}
	metrics.BackendCalls.WithLabelValues(operation, outcome).Inc()
	return err
}

func rejectionMessage(resp *resty.Response) string {
	var e errorDTO
	if err := json.Unmarshal(resp.Body(), &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return fmt.Sprintf("status %d", resp.StatusCode())
}
