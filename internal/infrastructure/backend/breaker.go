package backend

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/infrastructure/metrics"
)

type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// Breaker wraps gobreaker with metrics. Rejections (4xx) do not count as failures.
type Breaker struct {
	*gobreaker.CircuitBreaker
	name string
}

func NewBreaker(name string, s BreakerSettings) *Breaker {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrRemoteRejected)
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(stateValue(to))

			log.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return &Breaker{CircuitBreaker: cb, name: name}
}

// Execute runs fn through the breaker; open or saturated states surface as
// domain.ErrRemoteUnavailable.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.CircuitBreaker.Execute(fn)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrRemoteRejected) {
		metrics.CircuitBreakerFailures.WithLabelValues(b.name).Inc()
	}
	return nil, formatError(b.name, err)
}

func (b *Breaker) StateValue() int {
	return int(stateValue(b.State()))
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func formatError(circuitName string, err error) error {
	if err == gobreaker.ErrOpenState {
		return errors.Wrapf(domain.ErrRemoteUnavailable, "circuit breaker %s is open", circuitName)
	}
	if err == gobreaker.ErrTooManyRequests {
		return errors.Wrapf(domain.ErrRemoteUnavailable, "circuit breaker %s: too many requests in half-open state", circuitName)
	}
	return err
}
