package yaml

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

// Catalog is the fixture file the CLI configures products from.
type Catalog struct {
	Products []domain.Product `yaml:"products"`
}

func (c Catalog) Product(id string) (domain.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func LoadRulePack(path string) (domain.RulePackDefinition, error) {
	var pack domain.RulePackDefinition
	if err := decodeFile(path, &pack); err != nil {
		return domain.RulePackDefinition{}, err
	}
	return pack, nil
}

func LoadCatalog(path string) (Catalog, error) {
	var c Catalog
	if err := decodeFile(path, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func LoadCart(path string) (domain.CartSnapshot, error) {
	var s domain.CartSnapshot
	if err := decodeFile(path, &s); err != nil {
		return domain.CartSnapshot{}, err
	}
	return s, nil
}

func LoadCoupon(path string) (domain.Coupon, error) {
	var c domain.Coupon
	if err := decodeFile(path, &c); err != nil {
		return domain.Coupon{}, err
	}
	return c, nil
}

func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
