package handlers

import (
	"net/http"

	"cennik/internal/pricing"

	"github.com/gin-gonic/gin"
)

type calculateRequest struct {
	BasePrice        float64   `json:"basePrice"`
	GlobalFactor     float64   `json:"globalFactor"`
	ProductFactor    float64   `json:"productFactor"`
	OverrideFactor   float64   `json:"overrideFactor"`
	ProductDiscount  *float64  `json:"productDiscount"`
	OverrideDiscount *float64  `json:"overrideDiscount"`
	CustomPrice      *float64  `json:"customPrice"`
	Surcharges       []float64 `json:"surcharges"`
}

// CalculatePrice previews a price for arbitrary inputs, including an
// absolute custom price.
func CalculatePrice(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	price := pricing.CalculateProductPrice(pricing.Input{
		BasePrice:        req.BasePrice,
		GlobalFactor:     req.GlobalFactor,
		ProductFactor:    req.ProductFactor,
		OverrideFactor:   req.OverrideFactor,
		ProductDiscount:  req.ProductDiscount,
		OverrideDiscount: req.OverrideDiscount,
		CustomPrice:      req.CustomPrice,
	})

	surcharges := make([]pricing.Surcharge, 0, len(req.Surcharges))
	for _, percent := range req.Surcharges {
		surcharges = append(surcharges, pricing.CalculateSurcharge(price, percent))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"price":      price,
			"factor":     pricing.EffectiveFactor(req.GlobalFactor, req.ProductFactor, req.OverrideFactor),
			"discount":   pricing.EffectiveDiscount(req.OverrideDiscount, req.ProductDiscount),
			"surcharges": surcharges,
		},
	})
}
