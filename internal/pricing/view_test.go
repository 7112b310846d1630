package pricing

import (
	"testing"

	"cennik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPriceList(t *testing.T) {
	producer := &models.Producer{
		Slug:        "bizzarto",
		DisplayName: "Bizzarto",
		LayoutType:  models.LayoutGroups,
		PriceFactor: 1.2,
		Promotion:   &models.Promotion{Active: true, Label: "Jesień", Discount: 10},
	}
	catalog := models.NewCatalog("Cennik Bizzarto")
	catalog.Categories["Fotele"] = map[string]*models.Product{
		"Fotel Nidzica": {
			Prices:     map[string]float64{"Grupa I": 100},
			Surcharges: []models.Surcharge{{Label: "Funkcja spania", Percent: 20}},
		},
		"Fotel Ustka": {
			PriceFactor: ptr(1.5),
			Discount:    ptr(0),
			Sizes:       []models.Size{{Dimension: "80x90", Price: ptr(200)}},
		},
	}
	customName := "Fotel Nidzica II"
	overrides := map[models.OverrideKey]models.ProductOverride{
		{Manufacturer: "bizzarto", Category: "Fotele", ProductName: "Fotel Nidzica"}: {
			CustomName:  &customName,
			PriceFactor: 1.3,
			Discount:    ptr(5),
		},
	}

	list := BuildPriceList(producer, catalog, overrides)
	assert.Equal(t, "Cennik Bizzarto", list.Title)
	require.NotNil(t, list.Promotion)
	require.Len(t, list.Categories, 1)
	products := list.Categories[0].Products
	require.Len(t, products, 2)

	nidzica := products[0]
	assert.Equal(t, "Fotel Nidzica", nidzica.Name)
	assert.Equal(t, "Fotel Nidzica II", nidzica.DisplayName)
	assert.True(t, nidzica.Overridden)
	assert.Equal(t, 1.3, nidzica.Factor)
	assert.Equal(t, 5.0, nidzica.Discount, "override discount beats the promotion")
	assert.Equal(t, Price{FinalPrice: 124, OriginalPrice: 130, HasDiscount: true}, nidzica.Prices["Grupa I"])
	require.Len(t, nidzica.Surcharges, 1)
	assert.Equal(t, int64(149), nidzica.Surcharges[0].Prices["Grupa I"].Price)
	assert.Equal(t, int64(156), nidzica.Surcharges[0].Prices["Grupa I"].OriginalPrice)

	ustka := products[1]
	assert.False(t, ustka.Overridden)
	assert.Equal(t, 1.5, ustka.Factor)
	assert.Equal(t, 0.0, ustka.Discount, "explicit product discount of 0 hides the promotion")
	require.Len(t, ustka.Sizes, 1)
	assert.Equal(t, &Price{FinalPrice: 300, OriginalPrice: 300}, ustka.Sizes[0].Price)
}

func TestBuildPriceList_PromotionAppliesWithoutProductDiscount(t *testing.T) {
	producer := &models.Producer{Slug: "halex", PriceFactor: 1, Promotion: &models.Promotion{Active: true, Discount: 10}}
	catalog := models.NewCatalog("")
	catalog.Categories["Sofy"] = map[string]*models.Product{"Sofa": {Prices: map[string]float64{"A": 1000}}}

	list := BuildPriceList(producer, catalog, nil)
	assert.Equal(t, Price{FinalPrice: 900, OriginalPrice: 1000, HasDiscount: true}, list.Categories[0].Products[0].Prices["A"])

	producer.Promotion.Active = false
	list = BuildPriceList(producer, catalog, nil)
	assert.Nil(t, list.Promotion)
	assert.Equal(t, Price{FinalPrice: 1000, OriginalPrice: 1000}, list.Categories[0].Products[0].Prices["A"])
}

func TestBuildPriceList_SurchargesOnSizes(t *testing.T) {
	producer := &models.Producer{Slug: "wersal", LayoutType: models.LayoutSizes, PriceFactor: 1.2}
	catalog := models.NewCatalog("")
	catalog.Categories["Łóżka"] = map[string]*models.Product{
		"Łóżko Kama": {
			Sizes: []models.Size{
				{Dimension: "90x200", Price: ptr(1000)},
				{Dimension: "160x200", Prices: map[string]float64{"Grupa I": 2000}},
			},
			Surcharges: []models.Surcharge{{Label: "Pojemnik", Percent: 10}},
		},
	}

	list := BuildPriceList(producer, catalog, nil)
	product := list.Categories[0].Products[0]
	require.Len(t, product.Surcharges, 1)
	surcharge := product.Surcharges[0]
	assert.Empty(t, surcharge.Prices)
	require.Len(t, surcharge.Sizes, 2)

	assert.Equal(t, "90x200", surcharge.Sizes[0].Dimension)
	require.NotNil(t, surcharge.Sizes[0].Price)
	assert.Equal(t, int64(1320), surcharge.Sizes[0].Price.Price) // 1200 * 1.1
	assert.Equal(t, int64(1320), surcharge.Sizes[0].Price.OriginalPrice)

	assert.Equal(t, "160x200", surcharge.Sizes[1].Dimension)
	assert.Nil(t, surcharge.Sizes[1].Price)
	assert.Equal(t, int64(2640), surcharge.Sizes[1].Prices["Grupa I"].Price) // 2400 * 1.1
}
