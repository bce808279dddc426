package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrVariantRequired = errors.New("product has variants, a size must be selected")
	ErrUnknownVariant  = errors.New("size not found on product")
)

// ItemKey identifies a line item by product and optional variant size.
// The separator cannot appear in catalog ids or size labels, so distinct
// (product, size) pairs never collide.
type ItemKey string

const keySeparator = "\x1f"

func NewItemKey(productID, size string) ItemKey {
	return ItemKey(productID + keySeparator + size)
}

// LineItem is one cart entry: a full snapshot of the product (and variant,
// when one was selected) taken at add time, plus a quantity.
type LineItem struct {
	Product  Product   `json:"product" bson:"product"`
	Variant  *Variant  `json:"variant,omitempty" bson:"variant,omitempty"`
	Quantity int       `json:"quantity" bson:"quantity"`
	AddedAt  time.Time `json:"added_at" bson:"added_at"`
}

func (li LineItem) Key() ItemKey {
	size := ""
	if li.Variant != nil {
		size = li.Variant.Size
	}
	return NewItemKey(li.Product.ID, size)
}

// VariantSize returns the selected size label or "" for base-price items.
func (li LineItem) VariantSize() string {
	if li.Variant == nil {
		return ""
	}
	return li.Variant.Size
}

// NewLineItem snapshots a product (and the named variant, when size is
// non-empty) into a cart entry. A product that has variants must be added
// with one: mixing base-price and variant-price entries under the same key
// would corrupt pricing.
func NewLineItem(p Product, size string, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	if size == "" {
		if p.HasVariants() {
			return LineItem{}, ErrVariantRequired
		}
		return LineItem{Product: p, Quantity: quantity, AddedAt: time.Now()}, nil
	}
	v, ok := p.VariantBySize(size)
	if !ok {
		return LineItem{}, ErrUnknownVariant
	}
	return LineItem{Product: p, Variant: &v, Quantity: quantity, AddedAt: time.Now()}, nil
}

// Cart holds the ordered line items for one session. Version increases by
// one on every mutation and travels with the persisted snapshot so a stale
// write can never replace a newer one.
type Cart struct {
	Items     []LineItem `json:"items" bson:"items"`
	Version   int64      `json:"version" bson:"version"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// IndexOf returns the position of the line item with the given key, or -1.
func (c Cart) IndexOf(key ItemKey) int {
	for i, li := range c.Items {
		if li.Key() == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy; callers may mutate the result freely.
func (c Cart) Clone() Cart {
	cp := c
	cp.Items = make([]LineItem, len(c.Items))
	for i, li := range c.Items {
		cp.Items[i] = li
		if li.Variant != nil {
			v := *li.Variant
			cp.Items[i].Variant = &v
		}
		cp.Items[i].Product.Variants = append([]Variant(nil), li.Product.Variants...)
		cp.Items[i].Product.Images = append([]string(nil), li.Product.Images...)
	}
	return cp
}
