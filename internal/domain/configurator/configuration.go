package configurator

// Configuration is the in-progress state of one product-editing session.
// Selections keep option ids in the product's listing order; Quantities may
// hold entries for options that are not selected.
type Configuration struct {
	ProductID  string                    `json:"productId"`
	Selections map[string][]string       `json:"selections"`
	Quantities map[string]map[string]int `json:"quantities"`
}

func newConfiguration(productID string) Configuration {
	return Configuration{
		ProductID:  productID,
		Selections: map[string][]string{},
		Quantities: map[string]map[string]int{},
	}
}

func (c Configuration) clone() Configuration {
	out := newConfiguration(c.ProductID)
	for sec, ids := range c.Selections {
		out.Selections[sec] = append([]string(nil), ids...)
	}
	for sec, q := range c.Quantities {
		m := make(map[string]int, len(q))
		for id, n := range q {
			m[id] = n
		}
		out.Quantities[sec] = m
	}
	return out
}

func (c Configuration) Selected(sectionID string) []string {
	return c.Selections[sectionID]
}

func (c Configuration) IsSelected(sectionID, optionID string) bool {
	for _, id := range c.Selections[sectionID] {
		if id == optionID {
			return true
		}
	}
	return false
}

func (c Configuration) recordedQuantity(sectionID, optionID string) (int, bool) {
	q, ok := c.Quantities[sectionID][optionID]
	return q, ok
}

func (c *Configuration) setQuantity(sectionID, optionID string, q int) {
	if c.Quantities[sectionID] == nil {
		c.Quantities[sectionID] = map[string]int{}
	}
	c.Quantities[sectionID][optionID] = q
}

func (c *Configuration) dropQuantity(sectionID, optionID string) {
	if q, ok := c.Quantities[sectionID]; ok {
		delete(q, optionID)
		if len(q) == 0 {
			delete(c.Quantities, sectionID)
		}
	}
}
