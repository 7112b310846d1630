package pricing

import (
	"sort"

	"cennik/internal/models"
)

// PriceList is a producer catalog with every price already computed.
type PriceList struct {
	ProducerSlug string            `json:"producerSlug"`
	Title        string            `json:"title"`
	LayoutType   string            `json:"layoutType"`
	GlobalFactor float64           `json:"globalFactor"`
	Promotion    *models.Promotion `json:"promotion,omitempty"`
	Categories   []CategoryPrices  `json:"categories"`
}

type CategoryPrices struct {
	Name     string          `json:"name"`
	Products []ProductPrices `json:"products"`
}

type ProductPrices struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	PreviousName string            `json:"previousName,omitempty"`
	Image        string            `json:"image,omitempty"`
	Factor       float64           `json:"factor"`
	Discount     float64           `json:"discount"`
	Prices       map[string]Price  `json:"prices,omitempty"`
	Sizes        []SizePrices      `json:"sizes,omitempty"`
	Surcharges   []SurchargePrices `json:"surcharges,omitempty"`
	Overridden   bool              `json:"overridden"`
}

type SizePrices struct {
	Dimension string           `json:"dimension"`
	Price     *Price           `json:"price,omitempty"`
	Prices    map[string]Price `json:"prices,omitempty"`
}

// SurchargePrices holds one surcharge computed for each price group and for
// each size row.
type SurchargePrices struct {
	Label   string               `json:"label"`
	Percent float64              `json:"percent"`
	Prices  map[string]Surcharge `json:"prices"`
	Sizes   []SizeSurcharges     `json:"sizes,omitempty"`
}

type SizeSurcharges struct {
	Dimension string               `json:"dimension"`
	Price     *Surcharge           `json:"price,omitempty"`
	Prices    map[string]Surcharge `json:"prices,omitempty"`
}

// BuildPriceList layers the producer factor, product factors and discounts,
// overrides and the producer promotion over a catalog. The promotion acts as
// the product discount for products that define none.
func BuildPriceList(producer *models.Producer, catalog *models.Catalog, overrides map[models.OverrideKey]models.ProductOverride) *PriceList {
	list := &PriceList{
		ProducerSlug: producer.Slug,
		Title:        firstNonEmpty(catalog.Title, producer.Title, producer.DisplayName),
		LayoutType:   string(producer.LayoutType),
		GlobalFactor: normalizeFactor(producer.PriceFactor),
		Categories:   []CategoryPrices{},
	}
	if producer.ActiveDiscount() != nil {
		list.Promotion = producer.Promotion
	}

	for _, category := range sortedNames(catalog.Categories) {
		cp := CategoryPrices{Name: category, Products: []ProductPrices{}}
		products := catalog.Categories[category]
		for _, name := range sortedNames(products) {
			product := products[name]
			if product == nil {
				continue
			}
			key := models.OverrideKey{Manufacturer: producer.Slug, Category: category, ProductName: name}
			var override *models.ProductOverride
			if o, ok := overrides[key]; ok {
				override = &o
			}
			cp.Products = append(cp.Products, productPrices(producer, name, product, override))
		}
		list.Categories = append(list.Categories, cp)
	}
	return list
}

func productPrices(producer *models.Producer, name string, product *models.Product, override *models.ProductOverride) ProductPrices {
	in := Input{
		GlobalFactor:    producer.PriceFactor,
		ProductDiscount: product.Discount,
	}
	if product.PriceFactor != nil {
		in.ProductFactor = *product.PriceFactor
	}
	if in.ProductDiscount == nil {
		in.ProductDiscount = producer.ActiveDiscount()
	}

	pp := ProductPrices{
		Name:         name,
		DisplayName:  name,
		PreviousName: product.PreviousName,
		Image:        product.Image,
	}
	if override != nil {
		pp.Overridden = true
		in.OverrideFactor = override.PriceFactor
		in.OverrideDiscount = override.Discount
		if override.CustomName != nil && *override.CustomName != "" {
			pp.DisplayName = *override.CustomName
		}
	}
	pp.Factor = EffectiveFactor(in.GlobalFactor, in.ProductFactor, in.OverrideFactor)
	pp.Discount = EffectiveDiscount(in.OverrideDiscount, in.ProductDiscount)

	price := func(base float64) Price {
		in.BasePrice = base
		return CalculateProductPrice(in)
	}

	if len(product.Prices) > 0 {
		pp.Prices = make(map[string]Price, len(product.Prices))
		for group, base := range product.Prices {
			pp.Prices[group] = price(base)
		}
	}

	for _, size := range product.Sizes {
		sp := SizePrices{Dimension: size.Dimension}
		if size.Price != nil {
			p := price(*size.Price)
			sp.Price = &p
		}
		if len(size.Prices) > 0 {
			sp.Prices = make(map[string]Price, len(size.Prices))
			for group, base := range size.Prices {
				sp.Prices[group] = price(base)
			}
		}
		pp.Sizes = append(pp.Sizes, sp)
	}

	for _, s := range product.Surcharges {
		sp := SurchargePrices{Label: s.Label, Percent: s.Percent, Prices: map[string]Surcharge{}}
		for group, p := range pp.Prices {
			sp.Prices[group] = CalculateSurcharge(p, s.Percent)
		}
		for _, size := range pp.Sizes {
			ss := SizeSurcharges{Dimension: size.Dimension}
			if size.Price != nil {
				v := CalculateSurcharge(*size.Price, s.Percent)
				ss.Price = &v
			}
			if len(size.Prices) > 0 {
				ss.Prices = make(map[string]Surcharge, len(size.Prices))
				for group, p := range size.Prices {
					ss.Prices[group] = CalculateSurcharge(p, s.Percent)
				}
			}
			sp.Sizes = append(sp.Sizes, ss)
		}
		pp.Surcharges = append(pp.Surcharges, sp)
	}

	return pp
}

func sortedNames[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
