package usecase

import (
	"context"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pkg/errors"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/domain/calculator"
	"github.com/Victor-armando18/service-pricing/internal/interfaces"
)

// CartService is one shopper's cart session kept in step with the backend.
// Every mutation is persisted first and applied locally only when the
// backend accepted it. A CartService is not safe for concurrent use.
type CartService struct {
	backend      interfaces.Backend
	pricing      interfaces.PricingFacade
	cart         calculator.Cart
	hasDelivery  bool
	rulesVersion string
}

// RefreshResult reports how the backend state differed from the local one.
type RefreshResult struct {
	ServerDelta bool            `json:"serverDelta"`
	Patch       json.RawMessage `json:"patch"`
}

func NewCartService(backend interfaces.Backend, pricing interfaces.PricingFacade, rulesVersion string) *CartService {
	return &CartService{
		backend:      backend,
		pricing:      pricing,
		cart:         calculator.NewCart(domain.CartSnapshot{}),
		hasDelivery:  true,
		rulesVersion: rulesVersion,
	}
}

func (s *CartService) SetDelivery(hasDelivery bool) {
	s.hasDelivery = hasDelivery
}

func (s *CartService) Snapshot() domain.CartSnapshot {
	return s.cart.Snapshot()
}

// Refresh replaces the local cart with the backend's and returns the merge
// patch between the two.
func (s *CartService) Refresh(ctx context.Context) (RefreshResult, error) {
	remote, err := s.backend.FetchCart(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	next := calculator.NewCart(remote)
	before, err := json.Marshal(s.cart.Snapshot())
	if err != nil {
		return RefreshResult{}, err
	}
	after, err := json.Marshal(next.Snapshot())
	if err != nil {
		return RefreshResult{}, err
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return RefreshResult{}, errors.Wrap(err, "create merge patch")
	}

	s.cart = next
	return RefreshResult{ServerDelta: len(patch) > 2, Patch: patch}, nil
}

// AddLine adds a committed line. A line matching an existing one by product
// and identity key is persisted as a quantity update of that line.
func (s *CartService) AddLine(ctx context.Context, line domain.CartLine) (domain.CartLine, error) {
	if line.Quantity < 1 {
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}

	if existing, ok := s.cart.Match(line); ok {
		qty := existing.Quantity + line.Quantity
		if err := s.backend.PersistLineUpdate(ctx, existing.ID, qty); err != nil {
			return domain.CartLine{}, err
		}
		next, err := s.cart.SetQuantity(existing.ID, qty)
		if err != nil {
			return domain.CartLine{}, err
		}
		s.cart = next
		merged, _ := s.cart.Line(existing.ID)
		return merged, nil
	}

	persisted, err := s.backend.PersistLineAdd(ctx, line)
	if err != nil {
		return domain.CartLine{}, err
	}
	if persisted.Key == "" {
		persisted.Key = line.Key
	}
	if persisted.Quantity < 1 {
		persisted.Quantity = line.Quantity
	}
	next, err := s.cart.Add(persisted)
	if err != nil {
		return domain.CartLine{}, err
	}
	s.cart = next
	added, ok := s.cart.Match(persisted)
	if !ok {
		lines := s.cart.Lines()
		added = lines[len(lines)-1]
	}
	return added, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}
	if _, ok := s.cart.Line(lineID); !ok {
		return errors.Wrapf(domain.ErrLineNotFound, "line %q", lineID)
	}
	if err := s.backend.PersistLineUpdate(ctx, lineID, quantity); err != nil {
		return err
	}
	next, err := s.cart.SetQuantity(lineID, quantity)
	if err != nil {
		return err
	}
	s.cart = next
	return nil
}

func (s *CartService) RemoveLine(ctx context.Context, lineID string) error {
	if _, ok := s.cart.Line(lineID); !ok {
		return errors.Wrapf(domain.ErrLineNotFound, "line %q", lineID)
	}
	if err := s.backend.PersistLineRemove(ctx, lineID); err != nil {
		return err
	}
	next, err := s.cart.Remove(lineID)
	if err != nil {
		return err
	}
	s.cart = next
	return nil
}

// ApplyCoupon gates on the backend's validation, checks eligibility locally
// and only then persists. The remote discount figure is never used.
func (s *CartService) ApplyCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	current, err := s.quote(ctx, s.cart.RemoveCoupon())
	if err != nil {
		return domain.Coupon{}, err
	}
	subtotal, fee := current.Totals.Subtotal, current.Totals.DeliveryFee

	remote, err := s.backend.ValidateCouponRemotely(ctx, code, subtotal)
	if err != nil {
		return domain.Coupon{}, err
	}
	if err := calculator.Validate(remote.Coupon, subtotal, fee, s.hasDelivery); err != nil {
		return domain.Coupon{}, err
	}

	coupon, err := s.backend.PersistCouponApply(ctx, code)
	if err != nil {
		return domain.Coupon{}, err
	}
	s.cart = s.cart.ApplyCoupon(coupon)
	return coupon, nil
}

func (s *CartService) RemoveCoupon(ctx context.Context) error {
	if s.cart.Coupon() == nil {
		return nil
	}
	if err := s.backend.PersistCouponRemove(ctx); err != nil {
		return err
	}
	s.cart = s.cart.RemoveCoupon()
	return nil
}

func (s *CartService) AvailableCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.backend.FetchAvailableCoupons(ctx)
}

// Totals recomputes the quote from local state.
func (s *CartService) Totals(ctx context.Context) (*domain.Quote, error) {
	return s.quote(ctx, s.cart)
}

func (s *CartService) quote(ctx context.Context, cart calculator.Cart) (*domain.Quote, error) {
	return s.pricing.Quote(ctx, domain.QuoteRequest{
		Lines:        cart.Lines(),
		Coupon:       cart.Coupon(),
		HasDelivery:  s.hasDelivery,
		RulesVersion: s.rulesVersion,
	})
}
