package models

// Catalog is the content of one <Manufacturer>.json file.
type Catalog struct {
	Title      string                         `json:"title"`
	Categories map[string]map[string]*Product `json:"categories"`
}

// Product is the data stored under a product key. The key itself is the
// product's identity within its category.
type Product struct {
	Image        string             `json:"image,omitempty"`
	Material     string             `json:"material,omitempty"`
	Dimensions   string             `json:"dimensions,omitempty"`
	Prices       map[string]float64 `json:"prices,omitempty"`
	Sizes        []Size             `json:"sizes,omitempty"`
	Options      []string           `json:"options,omitempty"`
	Description  string             `json:"description,omitempty"`
	PreviousName string             `json:"previousName,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	PriceFactor  *float64           `json:"priceFactor,omitempty"`
	Discount     *float64           `json:"discount,omitempty"`
	Surcharges   []Surcharge        `json:"surcharges,omitempty"`
}

// Size is one dimension variant of a product. Either Price or Prices
// (keyed by price group) is set.
type Size struct {
	Dimension string             `json:"dimension"`
	Price     *float64           `json:"price,omitempty"`
	Prices    map[string]float64 `json:"prices,omitempty"`
}

// Surcharge is a percentage add-on (e.g. a function or fabric upgrade).
type Surcharge struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// NewCatalog returns an empty catalog ready for writes.
func NewCatalog(title string) *Catalog {
	return &Catalog{Title: title, Categories: map[string]map[string]*Product{}}
}

// Lookup returns the product stored under category/name.
func (c *Catalog) Lookup(category, name string) (*Product, bool) {
	if c == nil || c.Categories == nil {
		return nil, false
	}
	products, ok := c.Categories[category]
	if !ok {
		return nil, false
	}
	p, ok := products[name]
	return p, ok && p != nil
}

// Clone deep-copies the product so renames never share nested maps.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Prices != nil {
		cp.Prices = make(map[string]float64, len(p.Prices))
		for k, v := range p.Prices {
			cp.Prices[k] = v
		}
	}
	if p.Sizes != nil {
		cp.Sizes = make([]Size, len(p.Sizes))
		for i, s := range p.Sizes {
			cs := s
			if s.Price != nil {
				v := *s.Price
				cs.Price = &v
			}
			if s.Prices != nil {
				cs.Prices = make(map[string]float64, len(s.Prices))
				for k, v := range s.Prices {
					cs.Prices[k] = v
				}
			}
			cp.Sizes[i] = cs
		}
	}
	if p.Options != nil {
		cp.Options = append([]string(nil), p.Options...)
	}
	if p.Surcharges != nil {
		cp.Surcharges = append([]Surcharge(nil), p.Surcharges...)
	}
	if p.PriceFactor != nil {
		v := *p.PriceFactor
		cp.PriceFactor = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		cp.Discount = &v
	}
	return &cp
}
