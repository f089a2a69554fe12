package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRequiredSelection = errors.New("missing required selection")
	ErrSelectionLimitExceeded   = errors.New("selection limit exceeded")
	ErrInvalidQuantity          = errors.New("quantity must be positive")
	ErrLineNotFound             = errors.New("cart line not found")
	ErrCouponIneligible         = errors.New("coupon ineligible")
	ErrCouponKindUnrecognized   = errors.New("coupon discount kind unrecognized")
	ErrRemoteUnavailable        = errors.New("remote unavailable")
	ErrRemoteRejected           = errors.New("remote rejected request")
	ErrRuleExecutionFailed      = errors.New("rule execution failed")
	ErrRulePackNotFound         = errors.New("rule pack not found")
	ErrGuardViolation           = errors.New("blocked by guards")
)

// MissingRequiredSelectionError blocks a commit and names every offending section.
type MissingRequiredSelectionError struct {
	Sections []string
}

func (e *MissingRequiredSelectionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredSelection, strings.Join(e.Sections, ", "))
}

func (e *MissingRequiredSelectionError) Unwrap() error {
	return ErrMissingRequiredSelection
}

type IneligibilityReason string

const (
	BelowMinimum     IneligibilityReason = "below minimum order value"
	DeliveryRequired IneligibilityReason = "requires delivery"
)

type CouponIneligibleError struct {
	Code   string
	Reason IneligibilityReason
}

func (e *CouponIneligibleError) Error() string {
	return fmt.Sprintf("coupon %q ineligible: %s", e.Code, e.Reason)
}

func (e *CouponIneligibleError) Unwrap() error {
	return ErrCouponIneligible
}
