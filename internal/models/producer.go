package models

// Producer is one manufacturer entry of producers.json.
type Producer struct {
	Slug        string     `json:"slug"`
	DisplayName string     `json:"displayName"`
	DataFile    string     `json:"dataFile"`
	LayoutType  LayoutType `json:"layoutType"`
	Title       string     `json:"title"`
	Color       string     `json:"color"`
	PriceFactor float64    `json:"priceFactor"`
	Promotion   *Promotion `json:"promotion,omitempty"`
	Fabrics     []string   `json:"fabrics,omitempty"`
}

// Promotion is a manufacturer-wide discount shown on the price list.
type Promotion struct {
	Active     bool    `json:"active"`
	Label      string  `json:"label,omitempty"`
	Discount   float64 `json:"discount"`
	ValidUntil string  `json:"validUntil,omitempty"`
}

type LayoutType string

const (
	LayoutGroups LayoutType = "groups"
	LayoutSizes  LayoutType = "sizes"
	LayoutSimple LayoutType = "simple"
)

// ActiveDiscount returns the promotion discount when the promotion is switched on.
func (p *Producer) ActiveDiscount() *float64 {
	if p.Promotion == nil || !p.Promotion.Active || p.Promotion.Discount <= 0 {
		return nil
	}
	d := p.Promotion.Discount
	return &d
}
