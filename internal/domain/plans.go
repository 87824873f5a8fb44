package domain

// Plan represents a subscription tier for the studio's products.
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Seats    int    `json:"seats"`    // included user seats
	Products int    `json:"products"` // product licenses included
	Support  string `json:"support"`  // community, email, priority
	PriceUSD int    `json:"priceUsd"` // Monthly price in USD cents (2900 = $29)
	Popular  bool   `json:"popular"`  // Show "Most Popular" badge
}

// AvailablePlans returns all purchasable plans.
func AvailablePlans() []Plan {
	return []Plan{
		{
			ID:       "starter",
			Name:     "Starter",
			Seats:    3,
			Products: 1,
			Support:  "community",
			PriceUSD: 2900, // $29/mo
			Popular:  false,
		},
		{
			ID:       "pro",
			Name:     "Pro",
			Seats:    10,
			Products: 3,
			Support:  "email",
			PriceUSD: 7900, // $79/mo
			Popular:  true,
		},
		{
			ID:       "business",
			Name:     "Business",
			Seats:    25,
			Products: 10,
			Support:  "priority",
			PriceUSD: 19900, // $199/mo
			Popular:  false,
		},
	}
}

// PlanByID returns the plan for a given ID, or nil if unknown.
func PlanByID(id string) *Plan {
	for _, p := range AvailablePlans() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
