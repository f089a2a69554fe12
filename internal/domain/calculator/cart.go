package calculator

import (
	"github.com/google/uuid"

	"github.com/Victor-armando18/service-pricing/internal/domain"
)

var newLineID = uuid.NewString

// Cart is an immutable value: every operation returns a new Cart and leaves
// the receiver untouched.
type Cart struct {
	lines  []domain.CartLine
	coupon *domain.Coupon
}

func NewCart(snapshot domain.CartSnapshot) Cart {
	c := Cart{lines: append([]domain.CartLine(nil), snapshot.Lines...)}
	if snapshot.AppliedCoupon != nil {
		cp := *snapshot.AppliedCoupon
		c.coupon = &cp
	}
	return c
}

func (c Cart) Snapshot() domain.CartSnapshot {
	s := domain.CartSnapshot{Lines: c.Lines()}
	if c.coupon != nil {
		cp := *c.coupon
		s.AppliedCoupon = &cp
	}
	return s
}

func (c Cart) Lines() []domain.CartLine {
	return append([]domain.CartLine{}, c.lines...)
}

func (c Cart) Coupon() *domain.Coupon {
	if c.coupon == nil {
		return nil
	}
	cp := *c.coupon
	return &cp
}

func (c Cart) Line(id string) (domain.CartLine, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return domain.CartLine{}, false
}

// Match returns the line the given line would merge into.
func (c Cart) Match(line domain.CartLine) (domain.CartLine, bool) {
	if i := c.matchIndex(line); i >= 0 {
		return c.lines[i], true
	}
	return domain.CartLine{}, false
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Add merges into the line with the same product and identity key, summing
// quantities; otherwise appends the line, assigning an id when missing.
func (c Cart) Add(line domain.CartLine) (Cart, error) {
	if line.Quantity < 1 {
		return c, domain.ErrInvalidQuantity
	}
	next := c.copy()
	if i := next.matchIndex(line); i >= 0 {
		next.lines[i].Quantity += line.Quantity
		return next, nil
	}
	if line.ID == "" {
		line.ID = newLineID()
	}
	next.lines = append(next.lines, line)
	return next, nil
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (c Cart) SetQuantity(lineID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c.Remove(lineID)
	}
	i := c.index(lineID)
	if i < 0 {
		return c, domain.ErrLineNotFound
	}
	next := c.copy()
	next.lines[i].Quantity = quantity
	return next, nil
}

func (c Cart) Increment(lineID string) (Cart, error) {
	l, ok := c.Line(lineID)
	if !ok {
		return c, domain.ErrLineNotFound
	}
	return c.SetQuantity(lineID, l.Quantity+1)
}

func (c Cart) Decrement(lineID string) (Cart, error) {
	l, ok := c.Line(lineID)
	if !ok {
		return c, domain.ErrLineNotFound
	}
	return c.SetQuantity(lineID, l.Quantity-1)
}

func (c Cart) Remove(lineID string) (Cart, error) {
	i := c.index(lineID)
	if i < 0 {
		return c, domain.ErrLineNotFound
	}
	next := c.copy()
	next.lines = append(next.lines[:i], next.lines[i+1:]...)
	return next, nil
}

// Clear empties the cart, applied coupon included.
func (c Cart) Clear() Cart {
	return Cart{}
}

// ApplyCoupon fills the single coupon slot, replacing any previous coupon.
func (c Cart) ApplyCoupon(coupon domain.Coupon) Cart {
	next := c.copy()
	next.coupon = &coupon
	return next
}

func (c Cart) RemoveCoupon() Cart {
	next := c.copy()
	next.coupon = nil
	return next
}

func (c Cart) Subtotal() domain.Money {
	return Subtotal(c.lines)
}

func (c Cart) copy() Cart {
	return Cart{lines: append([]domain.CartLine(nil), c.lines...), coupon: c.coupon}
}

func (c Cart) index(id string) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) matchIndex(line domain.CartLine) int {
	if line.Key == "" {
		return -1
	}
	for i, l := range c.lines {
		if l.SourceProductID == line.SourceProductID && l.Key == line.Key {
			return i
		}
	}
	return -1
}
