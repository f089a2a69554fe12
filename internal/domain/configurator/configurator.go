package configurator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// Configurator prices and validates configurations of a single product. It
// holds only the immutable product definition; every operation takes the
// current Configuration and returns a new one.
type Configurator struct {
	product domain.Product
}

func New(product domain.Product) *Configurator {
	return &Configurator{product: product}
}

func (c *Configurator) Product() domain.Product {
	return c.product
}

// Init pre-selects the first option of every required single section, then
// every option carrying a preset quantity (with that quantity).
func (c *Configurator) Init() Configuration {
	cfg := newConfiguration(c.product.ID)

	for _, sec := range c.product.Sections {
		if sec.Type == domain.SelectionSingle && sec.Required && len(sec.Options) > 0 {
			cfg.Selections[sec.ID] = []string{sec.Options[0].ID}
		}
	}

	for _, sec := range c.product.Sections {
		for _, opt := range sec.Options {
			if opt.Quantity <= 0 {
				continue
			}
			switch sec.Type {
			case domain.SelectionSingle:
				cfg.Selections[sec.ID] = []string{opt.ID}
			default:
				if cfg.IsSelected(sec.ID, opt.ID) {
					break
				}
				if sec.MaxSelection > 0 && len(cfg.Selections[sec.ID]) >= sec.MaxSelection {
					continue
				}
				cfg.Selections[sec.ID] = c.ordered(sec, append(cfg.Selections[sec.ID], opt.ID))
			}
			cfg.setQuantity(sec.ID, opt.ID, opt.Quantity)
		}
	}

	return cfg
}

// SelectOption applies a selection toggle. Unknown ids and additions beyond
// MaxSelection leave the configuration unchanged.
func (c *Configurator) SelectOption(cfg Configuration, sectionID, optionID string) Configuration {
	next, _ := c.Apply(cfg, SelectAction{SectionID: sectionID, OptionID: optionID})
	return next
}

// SetQuantity records a per-option quantity in a quantity-enabled section.
// It never changes which options are selected.
func (c *Configurator) SetQuantity(cfg Configuration, sectionID, optionID string, quantity int) Configuration {
	next, _ := c.Apply(cfg, QuantityAction{SectionID: sectionID, OptionID: optionID, Quantity: quantity})
	return next
}

// Apply is the reducer behind SelectOption and SetQuantity.
func (c *Configurator) Apply(cfg Configuration, action Action) (Configuration, Outcome) {
	switch a := action.(type) {
	case SelectAction:
		return c.applySelect(cfg, a)
	case QuantityAction:
		return c.applyQuantity(cfg, a)
	}
	return cfg, Outcome{Result: UnknownTarget}
}

func (c *Configurator) applySelect(cfg Configuration, a SelectAction) (Configuration, Outcome) {
	sec, ok := c.product.Section(a.SectionID)
	if !ok {
		return cfg, Outcome{Result: UnknownTarget}
	}
	if _, ok := sec.Option(a.OptionID); !ok {
		return cfg, Outcome{Result: UnknownTarget}
	}

	next := cfg.clone()
	current := next.Selections[sec.ID]

	if sec.Type == domain.SelectionSingle {
		if len(current) == 1 && current[0] == a.OptionID {
			if sec.Required {
				return cfg, Outcome{Result: Unchanged}
			}
			delete(next.Selections, sec.ID)
			return next, Outcome{Result: Changed}
		}
		next.Selections[sec.ID] = []string{a.OptionID}
		return next, Outcome{Result: Changed}
	}

	if next.IsSelected(sec.ID, a.OptionID) {
		kept := make([]string, 0, len(current))
		for _, id := range current {
			if id != a.OptionID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(next.Selections, sec.ID)
		} else {
			next.Selections[sec.ID] = kept
		}
		next.dropQuantity(sec.ID, a.OptionID)
		return next, Outcome{Result: Changed}
	}

	if sec.MaxSelection > 0 && len(current) >= sec.MaxSelection {
		return cfg, Outcome{Result: LimitReached, Err: domain.ErrSelectionLimitExceeded}
	}
	next.Selections[sec.ID] = c.ordered(sec, append(current, a.OptionID))
	return next, Outcome{Result: Changed}
}

func (c *Configurator) applyQuantity(cfg Configuration, a QuantityAction) (Configuration, Outcome) {
	sec, ok := c.product.Section(a.SectionID)
	if !ok || !sec.AllowQuantity {
		return cfg, Outcome{Result: UnknownTarget}
	}
	if _, ok := sec.Option(a.OptionID); !ok {
		return cfg, Outcome{Result: UnknownTarget}
	}
	if a.Quantity < 1 {
		return cfg, Outcome{Result: Unchanged, Err: domain.ErrInvalidQuantity}
	}

	next := cfg.clone()
	next.setQuantity(sec.ID, a.OptionID, a.Quantity)
	return next, Outcome{Result: Changed}
}

// ordered returns ids in the section's listing order, dropping duplicates.
func (c *Configurator) ordered(sec domain.SelectionSection, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	out := make([]string, 0, len(set))
	for _, opt := range sec.Options {
		if set[opt.ID] {
			out = append(out, opt.ID)
		}
	}
	return out
}

// effectiveQuantity is the multiplier applied to an option's price: the
// recorded quantity, else the preset, else 1. Sections without quantities
// always use 1.
func (c *Configurator) effectiveQuantity(cfg Configuration, sec domain.SelectionSection, opt domain.SelectionOption) int {
	if !sec.AllowQuantity {
		return 1
	}
	if q, ok := cfg.recordedQuantity(sec.ID, opt.ID); ok && q > 0 {
		return q
	}
	if opt.Quantity > 0 {
		return opt.Quantity
	}
	return 1
}

// Surcharge is the sum of all selected option prices times their quantities.
func (c *Configurator) Surcharge(cfg Configuration) domain.Money {
	var total domain.Money
	for _, sec := range c.product.Sections {
		for _, id := range cfg.Selected(sec.ID) {
			opt, ok := sec.Option(id)
			if !ok {
				continue
			}
			total += opt.Price.Times(c.effectiveQuantity(cfg, sec, opt))
		}
	}
	return total
}

func (c *Configurator) UnitPrice(cfg Configuration) domain.Money {
	return c.product.Price + c.Surcharge(cfg)
}

func (c *Configurator) LineTotal(cfg Configuration, mainQuantity int) domain.Money {
	return c.UnitPrice(cfg).Times(mainQuantity)
}

type CommitCheck struct {
	OK              bool     `json:"ok"`
	MissingSections []string `json:"missingSections,omitempty"`
}

func (c *Configurator) CanCommit(cfg Configuration) CommitCheck {
	var missing []string
	for _, sec := range c.product.Sections {
		if !sec.Required {
			continue
		}
		n := len(cfg.Selected(sec.ID))
		if n < 1 || (sec.MinSelection > 0 && n < sec.MinSelection) {
			missing = append(missing, sec.ID)
		}
	}
	return CommitCheck{OK: len(missing) == 0, MissingSections: missing}
}

// IdentityKey canonicalises the configuration so that equal keys denote the
// same cart line: product id, sorted section=sorted-options, then sorted
// effective quantities of selected options in quantity-enabled sections.
// Every id is quoted, so separators inside ids cannot collide.
func (c *Configurator) IdentityKey(cfg Configuration) string {
	sections := make([]string, 0, len(cfg.Selections))
	for sec, ids := range cfg.Selections {
		if len(ids) > 0 {
			sections = append(sections, sec)
		}
	}
	sort.Strings(sections)

	var sel, qty []string
	for _, secID := range sections {
		ids := append([]string(nil), cfg.Selections[secID]...)
		sort.Strings(ids)
		sel = append(sel, strconv.Quote(secID)+"="+quoteAll(ids))

		sec, ok := c.product.Section(secID)
		if !ok || !sec.AllowQuantity {
			continue
		}
		for _, id := range ids {
			if opt, ok := sec.Option(id); ok {
				qty = append(qty, strconv.Quote(secID)+"."+strconv.Quote(id)+"="+strconv.Itoa(c.effectiveQuantity(cfg, sec, opt)))
			}
		}
	}

	return strconv.Quote(c.product.ID) + "|" + strings.Join(sel, ";") + "|" + strings.Join(qty, ";")
}

func quoteAll(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	return strings.Join(quoted, ",")
}
