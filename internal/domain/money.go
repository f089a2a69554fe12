package domain

import "github.com/shopspring/decimal"

// Money is an amount in minor currency units (cents). Engine arithmetic never
// leaves the integer domain.
type Money int64

func (m Money) Times(n int) Money {
	return m * Money(n)
}

// Format renders the amount with two fixed decimals, e.g. 1798 -> "17.98".
func (m Money) Format() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

func (m Money) String() string {
	return m.Format()
}

func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

func MaxMoney(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

func MoneyPtr(m Money) *Money {
	return &m
}
