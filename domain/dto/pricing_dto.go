package dto

// PricingSelection is the body of POST /api/pricing/quote.
type PricingSelection struct {
	Plan     string           `json:"plan" binding:"required"`
	Platform string           `json:"platform" binding:"required"`
	AddOns   []AddOnSelection `json:"add_ons"`
}

type AddOnSelection struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// PricingQuote itemizes the monthly estimate. All amounts are whole USD.
type PricingQuote struct {
	Plan            string      `json:"plan"`
	PlanFee         int64       `json:"plan_fee"`
	Platform        string      `json:"platform"`
	MinBudget       int64       `json:"min_budget"`
	ManagementRate  int64       `json:"management_rate_percent"`
	ManagementFee   int64       `json:"management_fee"`
	AdvertisingFees int64       `json:"advertising_fees"`
	AddOns          []AddOnLine `json:"add_ons"`
	AddOnTotal      int64       `json:"add_on_total"`
	Total           int64       `json:"total"`
}

type AddOnLine struct {
	ID        string `json:"id"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}
