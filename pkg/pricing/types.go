package pricing

import (
	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/configurator"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

type (
	Money            = domain.Money
	Product          = domain.Product
	SelectionSection = domain.SelectionSection
	SelectionOption  = domain.SelectionOption
	CartLine         = domain.CartLine
	CartSnapshot     = domain.CartSnapshot
	Coupon           = domain.Coupon
	CouponConditions = domain.CouponConditions
	CartTotals       = domain.CartTotals
	QuoteRequest     = domain.QuoteRequest
	Quote            = domain.Quote
	GuardViolation   = domain.GuardViolation
	Trace            = domain.Trace

	Configuration = configurator.Configuration
	Configurator  = configurator.Configurator
	CommitCheck   = configurator.CommitCheck

	TraceObserver = interfaces.TraceObserver
)

const (
	SelectionSingle    = domain.SelectionSingle
	SelectionMultiple  = domain.SelectionMultiple
	DiscountFixed      = domain.DiscountFixed
	DiscountPercentage = domain.DiscountPercentage
)

var (
	ErrMissingRequiredSelection = domain.ErrMissingRequiredSelection
	ErrCouponIneligible         = domain.ErrCouponIneligible
	ErrCouponKindUnrecognized   = domain.ErrCouponKindUnrecognized
	ErrInvalidQuantity          = domain.ErrInvalidQuantity
	ErrRulePackNotFound         = domain.ErrRulePackNotFound
)
