package domain

// Variant is a product sub-option (a bottle size) with its own price and
// stock. Size is unique within the parent product's variant list.
type Variant struct {
	Size          string `json:"size" bson:"size"`
	Price         int64  `json:"price" bson:"price"`
	DiscountPrice int64  `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	Stock         int    `json:"stock" bson:"stock"`
}

// Product is a read-only snapshot of a catalog product as it existed when it
// entered the cart. Prices are whole currency units.
type Product struct {
	ID            string    `json:"id" bson:"id"`
	Name          string    `json:"name" bson:"name"`
	Slug          string    `json:"slug" bson:"slug"`
	Price         int64     `json:"price" bson:"price"`
	DiscountPrice int64     `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	Variants      []Variant `json:"variants,omitempty" bson:"variants,omitempty"`
	Stock         int       `json:"stock" bson:"stock"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	Images        []string  `json:"images,omitempty" bson:"images,omitempty"`
}

func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantBySize returns the variant with the given size label, if any.
func (p Product) VariantBySize(size string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

// PrimaryImage returns the first image reference or "" for products without
// images.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
