package usecase

import (
	"fmt"

	"creator-hub/domain/dto"
)

// Plan fees and ad platform terms mirror the published private-community
// pricing table. Rates are whole percentages so the arithmetic stays exact.
var planFees = map[string]int64{
	"basic":    99,
	"standard": 299,
	"premium":  599,
}

type adPlatform struct {
	minBudget   int64
	ratePercent int64
}

var adPlatforms = map[string]adPlatform{
	"meta":   {minBudget: 5000, ratePercent: 15},
	"tiktok": {minBudget: 3000, ratePercent: 15},
	"google": {minBudget: 2500, ratePercent: 12},
}

type addOn struct {
	unitPrice int64
	quantity  bool // whether the add-on is billed per unit
}

var addOns = map[string]addOn{
	"extra-content":    {unitPrice: 8, quantity: true},
	"custom-chatbot":   {unitPrice: 1500},
	"extra-campaigns":  {unitPrice: 500, quantity: true},
	"design-pack":      {unitPrice: 150},
	"video-production": {unitPrice: 250},
}

// Quote prices a plan/platform/add-on selection. It is pure: the same
// selection always yields the same quote.
func Quote(sel dto.PricingSelection) (*dto.PricingQuote, error) {
	planFee, ok := planFees[sel.Plan]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", sel.Plan)
	}
	platform, ok := adPlatforms[sel.Platform]
	if !ok {
		return nil, fmt.Errorf("unknown ad platform %q", sel.Platform)
	}

	managementFee := platform.minBudget * platform.ratePercent / 100
	advertisingFees := platform.minBudget + managementFee

	quote := &dto.PricingQuote{
		Plan:            sel.Plan,
		PlanFee:         planFee,
		Platform:        sel.Platform,
		MinBudget:       platform.minBudget,
		ManagementRate:  platform.ratePercent,
		ManagementFee:   managementFee,
		AdvertisingFees: advertisingFees,
		AddOns:          []dto.AddOnLine{},
	}

	for _, selected := range sel.AddOns {
		item, ok := addOns[selected.ID]
		if !ok {
			return nil, fmt.Errorf("unknown add-on %q", selected.ID)
		}
		qty := 1
		if item.quantity && selected.Quantity > 1 {
			qty = selected.Quantity
		}
		line := dto.AddOnLine{
			ID:        selected.ID,
			UnitPrice: item.unitPrice,
			Quantity:  qty,
			Subtotal:  item.unitPrice * int64(qty),
		}
		quote.AddOns = append(quote.AddOns, line)
		quote.AddOnTotal += line.Subtotal
	}

	quote.Total = quote.PlanFee + quote.AdvertisingFees + quote.AddOnTotal
	return quote, nil
}
