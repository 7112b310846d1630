// Package pricing computes displayed prices from catalog base prices,
// manufacturer and product factors, manual overrides and discounts.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Price is a computed price. OriginalPrice is the pre-discount value the UI
// shows struck through when HasDiscount is set.
type Price struct {
	FinalPrice    int64 `json:"finalPrice"`
	OriginalPrice int64 `json:"originalPrice"`
	HasDiscount   bool  `json:"hasDiscount"`
}

// Input gathers everything that can influence one product price.
type Input struct {
	BasePrice        float64
	GlobalFactor     float64
	ProductFactor    float64
	OverrideFactor   float64
	ProductDiscount  *float64
	OverrideDiscount *float64
	// CustomPrice replaces the factor computation when set.
	CustomPrice *float64
}

// Surcharge is an add-on price derived from a computed price.
type Surcharge struct {
	Percent       float64 `json:"percent"`
	Price         int64   `json:"price"`
	OriginalPrice int64   `json:"originalPrice"`
	HasDiscount   bool    `json:"hasDiscount"`
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// EffectiveFactor returns the largest of the three multipliers. Unset
// (zero or negative) factors count as 1.
func EffectiveFactor(global, product, override float64) float64 {
	best := normalizeFactor(global)
	if f := normalizeFactor(product); f > best {
		best = f
	}
	if f := normalizeFactor(override); f > best {
		best = f
	}
	return best
}

func normalizeFactor(f float64) float64 {
	if f <= 0 {
		return 1
	}
	return f
}

// EffectiveDiscount picks the first defined discount: override, then product, then 0.
func EffectiveDiscount(override, product *float64) float64 {
	if override != nil {
		return *override
	}
	if product != nil {
		return *product
	}
	return 0
}

// CalculatePrice rounds base×factor to a whole amount and then applies the
// discount percentage, rounding again.
func CalculatePrice(base, factor, discount float64) Price {
	original := decimal.NewFromFloat(base).Mul(decimal.NewFromFloat(factor)).Round(0)
	return applyDiscount(original, discount)
}

// CalculateProductPrice resolves factors and discounts for one product.
func CalculateProductPrice(in Input) Price {
	discount := EffectiveDiscount(in.OverrideDiscount, in.ProductDiscount)
	if in.CustomPrice != nil {
		return applyDiscount(decimal.NewFromFloat(*in.CustomPrice).Round(0), discount)
	}
	factor := EffectiveFactor(in.GlobalFactor, in.ProductFactor, in.OverrideFactor)
	return CalculatePrice(in.BasePrice, factor, discount)
}

func applyDiscount(original decimal.Decimal, discount float64) Price {
	p := Price{
		FinalPrice:    original.IntPart(),
		OriginalPrice: original.IntPart(),
	}
	if discount <= 0 {
		return p
	}
	rate := one.Sub(decimal.NewFromFloat(discount).Div(hundred))
	p.FinalPrice = original.Mul(rate).Round(0).IntPart()
	p.HasDiscount = true
	return p
}

// CalculateSurcharge adds percent on top of the discounted price. When the
// price carries a discount the original surcharge is computed from the
// pre-discount price so both views reconcile.
func CalculateSurcharge(price Price, percent float64) Surcharge {
	s := Surcharge{
		Percent:     percent,
		Price:       addPercent(price.FinalPrice, percent),
		HasDiscount: price.HasDiscount,
	}
	if price.HasDiscount {
		s.OriginalPrice = addPercent(price.OriginalPrice, percent)
	} else {
		s.OriginalPrice = s.Price
	}
	return s
}

func addPercent(amount int64, percent float64) int64 {
	rate := one.Add(decimal.NewFromFloat(percent).Div(hundred))
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// PercentChange returns the relative change from oldPrice to newPrice in
// percent, rounded to two decimals. A zero old price yields 0.
func PercentChange(oldPrice, newPrice float64) float64 {
	if oldPrice == 0 {
		return 0
	}
	o := decimal.NewFromFloat(oldPrice)
	n := decimal.NewFromFloat(newPrice)
	return n.Sub(o).Div(o).Mul(hundred).Round(2).InexactFloat64()
}

// ApplyPercent scales price by percent and rounds to a whole amount. Used
// when a bulk change is expressed as a percentage.
func ApplyPercent(price, percent float64) float64 {
	rate := one.Add(decimal.NewFromFloat(percent).Div(hundred))
	return decimal.NewFromFloat(price).Mul(rate).Round(0).InexactFloat64()
}
