package domain

// CartLine is one line of the cart as the origin reports it. The cart is the
// authoritative external resource; this is a point-in-time read, never cached.
type CartLine struct {
	ProductID       int     `json:"product_id"`
	Name            string  `json:"name"`
	Subtitle        string  `json:"subtitle"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	UnitPrice       float64 `json:"unit_price"`
	UnitPriceSuffix string  `json:"unit_price_suffix"`
}
