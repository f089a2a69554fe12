package domain

// --- Product configuration ---

type SelectionType string

const (
	SelectionSingle   SelectionType = "single"
	SelectionMultiple SelectionType = "multiple"
)

// SelectionOption is one choosable add-on inside a section. Quantity is a
// preset multiplier; zero means no preset.
type SelectionOption struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Price    Money  `json:"price" yaml:"price"`
	Quantity int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// SelectionSection groups mutually constrained options. Zero MinSelection or
// MaxSelection means the bound is not set.
type SelectionSection struct {
	ID            string            `json:"id" yaml:"id"`
	Title         string            `json:"title" yaml:"title"`
	Type          SelectionType     `json:"selectionType" yaml:"selectionType"`
	Required      bool              `json:"isRequired" yaml:"isRequired"`
	MinSelection  int               `json:"minSelection,omitempty" yaml:"minSelection,omitempty"`
	MaxSelection  int               `json:"maxSelection,omitempty" yaml:"maxSelection,omitempty"`
	AllowQuantity bool              `json:"allowQuantity" yaml:"allowQuantity"`
	Options       []SelectionOption `json:"options" yaml:"options"`
}

func (s SelectionSection) Option(id string) (SelectionOption, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return SelectionOption{}, false
}

// Product is what the configurator prices. Price is the final unit price
// before customizations; ListPrice, when set above Price, is the pre-promotion
// price used to derive the per-unit discount.
type Product struct {
	ID        string             `json:"id" yaml:"id"`
	Title     string             `json:"title" yaml:"title"`
	Price     Money              `json:"price" yaml:"price"`
	ListPrice Money              `json:"listPrice,omitempty" yaml:"listPrice,omitempty"`
	Sections  []SelectionSection `json:"sections" yaml:"sections"`
}

func (p Product) Section(id string) (SelectionSection, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SelectionSection{}, false
}

// --- Cart ---

type CustomizationItem struct {
	Name            string `json:"name" yaml:"name"`
	Quantity        int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	AdditionalPrice Money  `json:"additionalPrice" yaml:"additionalPrice"`
}

// Customization is either a single value (Value + AdditionalPrice) or a list
// of Items, never both.
type Customization struct {
	Label           string              `json:"label" yaml:"label"`
	Value           string              `json:"value,omitempty" yaml:"value,omitempty"`
	AdditionalPrice Money               `json:"additionalPrice,omitempty" yaml:"additionalPrice,omitempty"`
	Items           []CustomizationItem `json:"items,omitempty" yaml:"items,omitempty"`
}

type CartLine struct {
	ID              string          `json:"id" yaml:"id"`
	Key             string          `json:"key,omitempty" yaml:"key,omitempty"`
	SourceProductID string          `json:"sourceProductId" yaml:"sourceProductId"`
	Title           string          `json:"title" yaml:"title"`
	UnitBasePrice   Money           `json:"unitBasePrice" yaml:"unitBasePrice"`
	UnitFinalPrice  Money           `json:"unitFinalPrice" yaml:"unitFinalPrice"`
	UnitDiscount    Money           `json:"unitDiscount" yaml:"unitDiscount"`
	Quantity        int             `json:"quantity" yaml:"quantity"`
	Customizations  []Customization `json:"customizations,omitempty" yaml:"customizations,omitempty"`
}

func (l CartLine) LineTotal() Money {
	return l.UnitFinalPrice.Times(l.Quantity)
}

// CartSnapshot is the cart as exchanged with collaborators.
type CartSnapshot struct {
	Lines         []CartLine `json:"lines" yaml:"lines"`
	AppliedCoupon *Coupon    `json:"appliedCoupon,omitempty" yaml:"appliedCoupon,omitempty"`
}

// --- Coupons ---

type DiscountKind string

const (
	DiscountFixed      DiscountKind = "fixed"
	DiscountPercentage DiscountKind = "percentage"
)

func (k DiscountKind) Recognized() bool {
	return k == DiscountFixed || k == DiscountPercentage
}

// CouponConditions: a nil pointer means "no constraint of this kind"; an
// explicit zero is a real bound.
type CouponConditions struct {
	MinOrderValue       *Money `json:"minOrderValue,omitempty" yaml:"minOrderValue,omitempty"`
	MaxDiscountValue    *Money `json:"maxDiscountValue,omitempty" yaml:"maxDiscountValue,omitempty"`
	DeliveryNotIncluded bool   `json:"deliveryNotIncluded,omitempty" yaml:"deliveryNotIncluded,omitempty"`
	DeliveryRequired    bool   `json:"deliveryRequired,omitempty" yaml:"deliveryRequired,omitempty"`
}

// Coupon Amount is cents for fixed coupons and percentage points otherwise.
type Coupon struct {
	ID         string           `json:"id" yaml:"id"`
	Code       string           `json:"code" yaml:"code"`
	Kind       DiscountKind     `json:"discountKind" yaml:"discountKind"`
	Amount     int64            `json:"discountAmount" yaml:"discountAmount"`
	Conditions CouponConditions `json:"conditions" yaml:"conditions"`
}

// RemoteCouponValidation is the backend's eligibility answer. Its discount
// figure is informational only.
type RemoteCouponValidation struct {
	Coupon           Coupon `json:"coupon"`
	ComputedDiscount Money  `json:"computedDiscount"`
}

type CartTotals struct {
	Subtotal    Money `json:"subtotal"`
	DeliveryFee Money `json:"deliveryFee"`
	Discount    Money `json:"discount"`
	Total       Money `json:"total"`
}

// --- Quotes ---

type QuoteRequest struct {
	Lines        []CartLine `json:"lines"`
	Coupon       *Coupon    `json:"coupon,omitempty"`
	HasDelivery  bool       `json:"hasDelivery"`
	RulesVersion string     `json:"rulesVersion,omitempty"`
}

type Quote struct {
	Totals       CartTotals       `json:"totals"`
	Coupon       *Coupon          `json:"coupon,omitempty"`
	CouponError  string           `json:"couponError,omitempty"`
	GuardsHit    []GuardViolation `json:"guardsHit"`
	Trace        Trace            `json:"trace"`
	RulesVersion string           `json:"rulesVersion"`
}

// --- Rule packs ---

// RulePackDefinition is a versioned set of JsonLogic rules. Phases:
// "delivery" rules yield a fee in cents, "guards" rules yield true on violation.
type RulePackDefinition struct {
	Version     string       `json:"version" yaml:"version"`
	Rules       []RuleConfig `json:"rules" yaml:"rules"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

type RuleConfig struct {
	ID           string                 `json:"id" yaml:"id"`
	Phase        string                 `json:"phase" yaml:"phase"`
	Logic        map[string]interface{} `json:"logic" yaml:"logic"`
	ErrorMessage string                 `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

const (
	PhaseDelivery = "delivery"
	PhaseGuards   = "guards"
)

type GuardViolation struct {
	RuleID  string `json:"ruleId"`
	Reason  string `json:"reason"`
	Context string `json:"context"`
}
