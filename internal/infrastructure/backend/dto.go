package backend

import (
	"strings"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

type customizationItemDTO struct {
	Name            string `json:"name"`
	Quantity        int    `json:"quantity,omitempty"`
	AdditionalPrice int64  `json:"additional_price"`
}

type customizationDTO struct {
	Label           string                 `json:"label"`
	Value           string                 `json:"value,omitempty"`
	AdditionalPrice int64                  `json:"additional_price,omitempty"`
	Items           []customizationItemDTO `json:"items,omitempty"`
}

type lineDTO struct {
	ID             string             `json:"id,omitempty"`
	Key            string             `json:"key,omitempty"`
	ProductID      string             `json:"product_id"`
	Title          string             `json:"title"`
	UnitBasePrice  int64              `json:"unit_base_price"`
	UnitFinalPrice int64              `json:"unit_final_price"`
	UnitDiscount   int64              `json:"unit_discount"`
	Quantity       int                `json:"quantity"`
	Customizations []customizationDTO `json:"customizations,omitempty"`
}

type conditionsDTO struct {
	MinOrderValue       *int64 `json:"min_order_value"`
	MaxDiscountValue    *int64 `json:"max_discount_value"`
	DeliveryNotIncluded bool   `json:"delivery_not_included"`
	DeliveryRequired    bool   `json:"delivery_required"`
}

// couponDTO accepts both payload shapes the backend emits: the full one
// (discount_type, discount_value, conditions) and the simplified one
// (type, value, top-level min_order_value).
type couponDTO struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	DiscountType  string         `json:"discount_type,omitempty"`
	DiscountValue *int64         `json:"discount_value,omitempty"`
	Conditions    *conditionsDTO `json:"conditions,omitempty"`

	Type          string `json:"type,omitempty"`
	Value         *int64 `json:"value,omitempty"`
	MinOrderValue *int64 `json:"min_order_value,omitempty"`
}

type cartDTO struct {
	Lines         []lineDTO  `json:"lines"`
	AppliedCoupon *couponDTO `json:"applied_coupon,omitempty"`
}

type quantityDTO struct {
	Quantity int `json:"quantity"`
}

type codeDTO struct {
	Code string `json:"code"`
}

type validateRequestDTO struct {
	Code       string `json:"code"`
	OrderValue int64  `json:"order_value"`
}

type validateResponseDTO struct {
	Valid            bool      `json:"valid"`
	Message          string    `json:"message,omitempty"`
	Coupon           couponDTO `json:"coupon"`
	ComputedDiscount int64     `json:"computed_discount"`
}

type errorDTO struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// normalizeCoupon is the only place that looks at which optional fields a
// coupon payload carries.
func normalizeCoupon(d couponDTO) domain.Coupon {
	c := domain.Coupon{ID: d.ID, Code: d.Code}

	kind := d.DiscountType
	if kind == "" {
		kind = d.Type
	}
	c.Kind = normalizeKind(kind)

	switch {
	case d.DiscountValue != nil:
		c.Amount = *d.DiscountValue
	case d.Value != nil:
		c.Amount = *d.Value
	}

	if d.Conditions != nil {
		c.Conditions = domain.CouponConditions{
			MinOrderValue:       moneyPtr(d.Conditions.MinOrderValue),
			MaxDiscountValue:    moneyPtr(d.Conditions.MaxDiscountValue),
			DeliveryNotIncluded: d.Conditions.DeliveryNotIncluded,
			DeliveryRequired:    d.Conditions.DeliveryRequired,
		}
	}
	if c.Conditions.MinOrderValue == nil {
		c.Conditions.MinOrderValue = moneyPtr(d.MinOrderValue)
	}
	return c
}

func normalizeKind(raw string) domain.DiscountKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fixed", "amount", "fixed_amount":
		return domain.DiscountFixed
	case "percentage", "percent":
		return domain.DiscountPercentage
	}
	return domain.DiscountKind("unknown:" + raw)
}

func moneyPtr(v *int64) *domain.Money {
	if v == nil {
		return nil
	}
	return domain.MoneyPtr(domain.Money(*v))
}

func toLine(d lineDTO) domain.CartLine {
	l := domain.CartLine{
		ID:              d.ID,
		Key:             d.Key,
		SourceProductID: d.ProductID,
		Title:           d.Title,
		UnitBasePrice:   domain.Money(d.UnitBasePrice),
		UnitFinalPrice:  domain.Money(d.UnitFinalPrice),
		UnitDiscount:    domain.Money(d.UnitDiscount),
		Quantity:        d.Quantity,
	}
	for _, c := range d.Customizations {
		cz := domain.Customization{Label: c.Label, Value: c.Value, AdditionalPrice: domain.Money(c.AdditionalPrice)}
		for _, it := range c.Items {
			cz.Items = append(cz.Items, domain.CustomizationItem{Name: it.Name, Quantity: it.Quantity, AdditionalPrice: domain.Money(it.AdditionalPrice)})
		}
		l.Customizations = append(l.Customizations, cz)
	}
	return l
}

func fromLine(l domain.CartLine) lineDTO {
	d := lineDTO{
		ID:             l.ID,
		Key:            l.Key,
		ProductID:      l.SourceProductID,
		Title:          l.Title,
		UnitBasePrice:  int64(l.UnitBasePrice),
		UnitFinalPrice: int64(l.UnitFinalPrice),
		UnitDiscount:   int64(l.UnitDiscount),
		Quantity:       l.Quantity,
	}
	for _, c := range l.Customizations {
		cz := customizationDTO{Label: c.Label, Value: c.Value, AdditionalPrice: int64(c.AdditionalPrice)}
		for _, it := range c.Items {
			cz.Items = append(cz.Items, customizationItemDTO{Name: it.Name, Quantity: it.Quantity, AdditionalPrice: int64(it.AdditionalPrice)})
		}
		d.Customizations = append(d.Customizations, cz)
	}
	return d
}

func toSnapshot(d cartDTO) domain.CartSnapshot {
	s := domain.CartSnapshot{Lines: make([]domain.CartLine, 0, len(d.Lines))}
	for _, l := range d.Lines {
		s.Lines = append(s.Lines, toLine(l))
	}
	if d.AppliedCoupon != nil {
		c := normalizeCoupon(*d.AppliedCoupon)
		s.AppliedCoupon = &c
	}
	return s
}
