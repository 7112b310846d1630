package schedule

import (
	"fmt"
	"math"

	"cennik/internal/datastore"
	"cennik/internal/models"
	"cennik/internal/pricing"
)

// ChangeInput is one requested price change. Either NewPrice or Percent must
// be set; OldPrice is read from the catalog when omitted.
type ChangeInput struct {
	Category   string   `json:"category"`
	Element    string   `json:"element"`
	Dimension  string   `json:"dimension,omitempty"`
	PriceGroup string   `json:"priceGroup,omitempty"`
	OldPrice   *float64 `json:"oldPrice,omitempty"`
	NewPrice   *float64 `json:"newPrice,omitempty"`
	Percent    *float64 `json:"percent,omitempty"`
}

// BuildChanges resolves inputs against catalog into change items.
func BuildChanges(catalog *models.Catalog, inputs []ChangeInput) ([]models.ChangeItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no changes given", datastore.ErrInvalid)
	}

	items := make([]models.ChangeItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Category == "" || in.Element == "" {
			return nil, fmt.Errorf("%w: change %d: category and element are required", datastore.ErrInvalid, i)
		}

		item := models.ChangeItem{
			Category:   in.Category,
			Element:    in.Element,
			Dimension:  in.Dimension,
			PriceGroup: in.PriceGroup,
		}

		if in.OldPrice != nil {
			item.OldPrice = *in.OldPrice
		} else {
			old, ok := lookupPrice(catalog, item)
			if !ok {
				return nil, fmt.Errorf("%w: change %d: price for %s not found", datastore.ErrInvalid, i, describe(item))
			}
			item.OldPrice = old
		}

		switch {
		case in.NewPrice != nil:
			item.NewPrice = *in.NewPrice
		case in.Percent != nil:
			item.NewPrice = pricing.ApplyPercent(item.OldPrice, *in.Percent)
		default:
			return nil, fmt.Errorf("%w: change %d: newPrice or percent is required", datastore.ErrInvalid, i)
		}
		if item.NewPrice < 0 {
			return nil, fmt.Errorf("%w: change %d: negative price", datastore.ErrInvalid, i)
		}

		item.PercentChange = pricing.PercentChange(item.OldPrice, item.NewPrice)
		items = append(items, item)
	}
	return items, nil
}

// Summarize computes aggregate statistics over the percent changes.
func Summarize(items []models.ChangeItem) models.ChangeSummary {
	s := models.ChangeSummary{ItemCount: len(items)}
	if len(items) == 0 {
		return s
	}

	s.MinChange = math.Inf(1)
	s.MaxChange = math.Inf(-1)
	var total float64
	for _, it := range items {
		total += it.PercentChange
		s.MinChange = math.Min(s.MinChange, it.PercentChange)
		s.MaxChange = math.Max(s.MaxChange, it.PercentChange)
	}
	s.AverageChange = math.Round(total/float64(len(items))*100) / 100
	return s
}

// applyItems writes every item's new price into catalog and returns how many
// items were written and how many could not be located.
func applyItems(catalog *models.Catalog, items []models.ChangeItem) (applied, skipped int) {
	for _, it := range items {
		if setPrice(catalog, it, it.NewPrice) {
			applied++
		} else {
			skipped++
		}
	}
	return applied, skipped
}

// lookupPrice finds the price an item refers to. Items with a dimension
// address a size row, otherwise the product's price groups. Without a price
// group the single price of the row is used.
func lookupPrice(catalog *models.Catalog, item models.ChangeItem) (float64, bool) {
	product, ok := catalog.Lookup(item.Category, item.Element)
	if !ok {
		return 0, false
	}

	if item.Dimension != "" {
		size := findSize(product, item.Dimension)
		if size == nil {
			return 0, false
		}
		if item.PriceGroup == "" {
			if size.Price != nil {
				return *size.Price, true
			}
			return singlePrice(size.Prices)
		}
		v, ok := size.Prices[item.PriceGroup]
		return v, ok
	}

	if item.PriceGroup == "" {
		return singlePrice(product.Prices)
	}
	v, ok := product.Prices[item.PriceGroup]
	return v, ok
}

func setPrice(catalog *models.Catalog, item models.ChangeItem, value float64) bool {
	if _, ok := lookupPrice(catalog, item); !ok {
		return false
	}
	product, _ := catalog.Lookup(item.Category, item.Element)

	prices := product.Prices
	if item.Dimension != "" {
		size := findSize(product, item.Dimension)
		if item.PriceGroup == "" && size.Price != nil {
			v := value
			size.Price = &v
			return true
		}
		prices = size.Prices
	}

	group := item.PriceGroup
	if group == "" {
		for k := range prices {
			group = k
		}
	}
	prices[group] = value
	return true
}

func findSize(product *models.Product, dimension string) *models.Size {
	for i := range product.Sizes {
		if product.Sizes[i].Dimension == dimension {
			return &product.Sizes[i]
		}
	}
	return nil
}

func singlePrice(prices map[string]float64) (float64, bool) {
	if len(prices) != 1 {
		return 0, false
	}
	for _, v := range prices {
		return v, true
	}
	return 0, false
}

func describe(item models.ChangeItem) string {
	s := item.Category + "/" + item.Element
	if item.Dimension != "" {
		s += " [" + item.Dimension + "]"
	}
	if item.PriceGroup != "" {
		s += " (" + item.PriceGroup + ")"
	}
	return s
}
