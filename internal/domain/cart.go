package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

// Attribute is a free-form key/value pair attached to a cart line when it is
// added, such as household size or special requests.
type Attribute struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value" validate:"max=500"`
}

// CartLine is one line of an authoritative cart snapshot.
type CartLine struct {
	ID            string      `json:"id"`
	MerchandiseID string      `json:"merchandise_id"`
	ProductID     string      `json:"product_id"`
	ProductHandle string      `json:"product_handle"`
	Title         string      `json:"title"`
	VariantTitle  string      `json:"variant_title,omitempty"`
	Image         *Image      `json:"image,omitempty"`
	Quantity      int         `json:"quantity"`
	Price         LinePrice   `json:"price"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// Cart is a full snapshot of a remote cart as returned by every cart
// operation of the commerce platform.
type Cart struct {
	ID            string          `json:"id"`
	CheckoutURL   string          `json:"checkout_url"`
	Lines         []CartLine      `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	CurrencyCode  string          `json:"currency_code"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Usable reports whether the snapshot identifies a remote cart.
func (c *Cart) Usable() bool {
	return c != nil && c.ID != ""
}

// Line returns the line with the given ID.
func (c *Cart) Line(id string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// LineInput describes a variant to add to a cart.
type LineInput struct {
	MerchandiseID string      `json:"merchandise_id" validate:"required"`
	Quantity      int         `json:"quantity" validate:"gte=1,lte=99"`
	Attributes    []Attribute `json:"attributes,omitempty" validate:"omitempty,max=10,dive"`
}

// LineUpdate sets the quantity of an existing line.
type LineUpdate struct {
	LineID   string `json:"line_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// CartIdentity is what a shopper session remembers about its remote cart.
type CartIdentity struct {
	CartID      string    `json:"cart_id"`
	CheckoutURL string    `json:"checkout_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}
