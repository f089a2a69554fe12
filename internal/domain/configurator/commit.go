package configurator

import (
	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// Commit turns a valid configuration into a cart line. Nothing is built when a
// required section is unsatisfied. The line id is left for the cart to assign.
func (c *Configurator) Commit(cfg Configuration, mainQuantity int) (domain.CartLine, error) {
	if mainQuantity < 1 {
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}
	if check := c.CanCommit(cfg); !check.OK {
		return domain.CartLine{}, &domain.MissingRequiredSelectionError{Sections: check.MissingSections}
	}

	surcharge := c.Surcharge(cfg)
	listPrice := domain.MaxMoney(c.product.ListPrice, c.product.Price)
	unitBase := listPrice + surcharge
	unitFinal := c.product.Price + surcharge

	return domain.CartLine{
		Key:             c.IdentityKey(cfg),
		SourceProductID: c.product.ID,
		Title:           c.product.Title,
		UnitBasePrice:   unitBase,
		UnitFinalPrice:  unitFinal,
		UnitDiscount:    unitBase - unitFinal,
		Quantity:        mainQuantity,
		Customizations:  c.customizations(cfg),
	}, nil
}

func (c *Configurator) customizations(cfg Configuration) []domain.Customization {
	var out []domain.Customization
	for _, sec := range c.product.Sections {
		ids := cfg.Selected(sec.ID)
		if len(ids) == 0 {
			continue
		}

		if sec.Type == domain.SelectionSingle && len(ids) == 1 {
			opt, ok := sec.Option(ids[0])
			if !ok {
				continue
			}
			out = append(out, domain.Customization{
				Label:           sec.Title,
				Value:           opt.Title,
				AdditionalPrice: opt.Price.Times(c.effectiveQuantity(cfg, sec, opt)),
			})
			continue
		}

		custom := domain.Customization{Label: sec.Title}
		for _, id := range ids {
			opt, ok := sec.Option(id)
			if !ok {
				continue
			}
			item := domain.CustomizationItem{Name: opt.Title, AdditionalPrice: opt.Price}
			if sec.AllowQuantity {
				q := c.effectiveQuantity(cfg, sec, opt)
				item.Quantity = q
				item.AdditionalPrice = opt.Price.Times(q)
			}
			custom.Items = append(custom.Items, item)
		}
		out = append(out, custom)
	}
	return out
}
