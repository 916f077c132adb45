package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRecord(id float64, name, subtitle, price, unitPrice, abbr string) map[string]any {
	return map[string]any{
		"id":                            id,
		"fullName":                      name,
		"nameExtra":                     subtitle,
		"grossPrice":                    price,
		"grossUnitPrice":                unitPrice,
		"unitPriceQuantityAbbreviation": abbr,
	}
}

func TestParseProductPage(t *testing.T) {
	data := map[string]any{
		"hasMoreItems": true,
		"items": []any{
			productRecord(459, "Tine Helmelk", "1 l", "21.90", "21.90", "l"),
			productRecord(1077, "Q Lettmelk", "1,75 l", "39.30", "22.46", "l"),
			productRecord(88, "Gulrot", "400 g", "14.50", "36.25", "kg"),
		},
	}

	page := parseProductPage(data, "https://example.test/search")
	require.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	assert.Equal(t, "https://example.test/search", page.SourceURL)

	// Origin order is preserved.
	assert.Equal(t, 459, page.Items[0].ID)
	assert.Equal(t, 1077, page.Items[1].ID)
	assert.Equal(t, 88, page.Items[2].ID)

	first := page.Items[0]
	assert.Equal(t, "Tine Helmelk", first.Name)
	assert.Equal(t, "1 l", first.Subtitle)
	assert.Equal(t, 21.90, first.Price)
	assert.Equal(t, 21.90, first.UnitPrice)
	assert.Equal(t, "/l", first.UnitPriceSuffix)
	assert.Equal(t, "/kg", page.Items[2].UnitPriceSuffix)

	for _, p := range page.Items {
		assert.GreaterOrEqual(t, p.Price, 0.0)
	}
}

func TestParseProductPageSkipsMalformedItems(t *testing.T) {
	data := map[string]any{
		"items": []any{
			"not an object",
			map[string]any{"fullName": "no id at all"},
			productRecord(7, "Banan", "pr stk", "4.90", "4.90", "stk"),
		},
	}
	page := parseProductPage(data, "u")
	require.Len(t, page.Items, 1)
	assert.Equal(t, 7, page.Items[0].ID)
}

func TestParseProductPageDefaults(t *testing.T) {
	for name, data := range map[string]any{"nil": nil, "wrong type": "boom", "empty": map[string]any{}} {
		t.Run(name, func(t *testing.T) {
			page := parseProductPage(data, "u")
			assert.Empty(t, page.Items)
			assert.False(t, page.HasMore)
			assert.Equal(t, "u", page.SourceURL)
		})
	}
}

func TestParseProductUnparseablePrice(t *testing.T) {
	p := parseProduct(map[string]any{"id": 1.0, "fullName": "x", "grossPrice": "i kke et tall"})
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "", p.UnitPriceSuffix)
}

func TestParseFiltersGroupedAndFlat(t *testing.T) {
	nodes := []any{
		map[string]any{
			"displayName": "Kosthold",
			"items": []any{
				map[string]any{"name": "diet", "value": "vegan", "displayName": "Vegansk", "hits": 12.0},
				map[string]any{"name": "diet", "value": "vegetar", "displayName": "Vegetar", "hits": 31.0},
			},
		},
		map[string]any{"name": "time", "value": "under30", "displayName": "Under 30 min", "hits": 7.0, "category": "Tid"},
		map[string]any{"name": "new", "value": "true", "displayName": "Nyheter", "hits": 3.0},
	}

	filters := parseFilters(nodes)
	require.Len(t, filters, 4)

	assert.Equal(t, "diet:vegan", filters[0].ID)
	assert.Equal(t, "Kosthold", filters[0].Category)
	assert.Equal(t, 12, filters[0].Count)
	assert.Equal(t, "diet:vegetar", filters[1].ID)

	// Flat node keeps its own category label.
	assert.Equal(t, "time:under30", filters[2].ID)
	assert.Equal(t, "Tid", filters[2].Category)

	// Flat node without a label falls back to the placeholder.
	assert.Equal(t, "new:true", filters[3].ID)
	assert.Equal(t, "Filter", filters[3].Category)
}

func TestParseRecipePage(t *testing.T) {
	data := map[string]any{
		"hasMoreItems": false,
		"items": []any{
			map[string]any{"id": 301.0, "title": "Kremet pasta", "imageUrl": "https://img.test/301.jpg"},
			map[string]any{"title": "mangler id"},
			map[string]any{"id": 302.0, "title": "Taco"},
		},
		"filters": []any{
			map[string]any{"name": "diet", "value": "fisk", "displayName": "Fisk", "hits": 2.0},
		},
	}

	page := parseRecipePage(data, "u")
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Kremet pasta", page.Items[0].Title)
	assert.Equal(t, "https://img.test/301.jpg", page.Items[0].ImageURL)
	assert.False(t, page.HasMore)
	require.Len(t, page.Filters, 1)
	assert.Equal(t, "diet:fisk", page.Filters[0].ID)
}

func TestFormatIngredient(t *testing.T) {
	tests := []struct {
		name string
		ing  recipeIngredient
		want string
	}{
		{"whole quantity", recipeIngredient{Quantity: 2, Unit: "stk", Title: "gulrot"}, "2 stk gulrot"},
		{"fractional quantity", recipeIngredient{Quantity: 0.5, Unit: "l", Title: "melk"}, "0.5 l melk"},
		{"no unit", recipeIngredient{Quantity: 3, Title: "egg"}, "3 egg"},
		{"trailing zero dropped", recipeIngredient{Quantity: 1.50, Unit: "dl", Title: "fløte"}, "1.5 dl fløte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatIngredient(tt.ing))
		})
	}
}

func TestParseRecipeDetail(t *testing.T) {
	data := map[string]any{
		"title":       "Kremet pasta",
		"description": "Rask middag.",
		"imageUrl":    "https://img.test/r.jpg",
		"ingredients": []any{
			map[string]any{"title": "gulrot", "quantity": 2.0, "unit": "stk", "product": map[string]any{"id": 11.0}},
			map[string]any{"title": "melk", "quantity": 0.5, "unit": "l"},
		},
		"instructions": []any{
			"Kok pastaen.",
			map[string]any{"text": "Bland alt sammen."},
			map[string]any{"noText": true},
		},
	}

	detail := parseRecipeDetail(data)
	assert.Equal(t, "Kremet pasta", detail.Name)
	assert.Equal(t, "Rask middag.", detail.Description)
	assert.Equal(t, "https://img.test/r.jpg", detail.ImageURL)
	assert.Equal(t, []string{"2 stk gulrot", "0.5 l melk"}, detail.Ingredients)
	assert.Equal(t, []string{"Kok pastaen.", "Bland alt sammen."}, detail.Instructions)
}

func TestParseRecipeDetailNil(t *testing.T) {
	detail := parseRecipeDetail(nil)
	assert.Empty(t, detail.Name)
	assert.Empty(t, detail.Ingredients)
	assert.Empty(t, detail.Instructions)
}

func cartRecord(id, qty float64, name, subtitle, price string) map[string]any {
	return map[string]any{
		"product_id":                       id,
		"full_name":                        name,
		"name_extra":                       subtitle,
		"quantity":                         qty,
		"gross_price":                      price,
		"gross_unit_price":                 price,
		"unit_price_quantity_abbreviation": "l",
	}
}

func TestParseCartFlattensGroups(t *testing.T) {
	data := map[string]any{
		"items": []any{
			cartRecord(1, 2, "Tine Helmelk", "1 l", "21.90"),
		},
		"groups": []any{
			map[string]any{
				"name":  "Kremet pasta",
				"items": []any{cartRecord(11, 2, "Gulrot", "400 g", "14.50")},
			},
			map[string]any{
				"name":  "Taco",
				"items": []any{cartRecord(21, 1, "Tortilla", "8 stk", "29.00"), cartRecord(22, 1, "Rømme", "300 g", "24.90")},
			},
		},
	}

	lines := parseCart(data)
	require.Len(t, lines, 4)
	// Loose items first, then groups first-to-last, origin order inside each.
	assert.Equal(t, []int{1, 11, 21, 22}, []int{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID, lines[3].ProductID})

	assert.Equal(t, "Tine Helmelk", lines[0].Name)
	assert.Equal(t, "1 l", lines[0].Subtitle)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 21.90, lines[0].Price)
	assert.Equal(t, "/l", lines[0].UnitPriceSuffix)
}

func TestParseCartDefaults(t *testing.T) {
	assert.Empty(t, parseCart(nil))
	assert.Empty(t, parseCart(map[string]any{}))
}

func TestParseUser(t *testing.T) {
	u := parseUser(map[string]any{"firstName": "A", "lastName": "B", "email": "a@b.test"})
	assert.Equal(t, "A B", u.DisplayName())

	onlyEmail := parseUser(map[string]any{"email": "a@b.test"})
	assert.Equal(t, "a@b.test", onlyEmail.DisplayName())
}
