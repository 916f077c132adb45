package domain

// Product is a single catalog item as the origin renders it on a search page.
// ID is stable across searches and pages.
type Product struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Subtitle        string  `json:"subtitle"`
	Price           float64 `json:"price"`
	UnitPrice       float64 `json:"unit_price"`
	UnitPriceSuffix string  `json:"unit_price_suffix"` // "/l", "/kg", "" when absent
}

// ProductPage is one page of product search results, in origin order.
// HasMore is the only pagination signal the origin exposes; there is no cursor.
type ProductPage struct {
	SourceURL string    `json:"source_url"`
	Items     []Product `json:"items"`
	HasMore   bool      `json:"has_more"`
}
