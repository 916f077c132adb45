package client

import (
	"strconv"
	"strings"

	"oda/mcp/internal/domain"
)

// Parsers are total functions from "raw record or nil" to a domain read-model
// with safe defaults: empty items, HasMore false. They absorb shape drift
// locally and never fail the whole operation over one bad record.
//
// Two naming conventions coexist at the origin: the page-rendering data is
// camelCased, the REST cart API is snake_cased. Each parser matches its side
// exactly.

// defaultFilterCategory labels flat filter nodes the origin ships without a
// group.
const defaultFilterCategory = "Filter"

func parseProductPage(data any, sourceURL string) domain.ProductPage {
	page := domain.ProductPage{SourceURL: sourceURL, Items: []domain.Product{}}
	m := asMap(data)
	if m == nil {
		return page
	}
	page.HasMore = boolean(m, "hasMoreItems")
	for _, it := range list(m, "items") {
		im := asMap(it)
		if im == nil {
			continue
		}
		p := parseProduct(im)
		if p.ID == 0 {
			continue // malformed sub-record, keep the rest of the page
		}
		page.Items = append(page.Items, p)
	}
	return page
}

func parseProduct(m map[string]any) domain.Product {
	return domain.Product{
		ID:              integer(m, "id"),
		Name:            str(m, "fullName"),
		Subtitle:        str(m, "nameExtra"),
		Price:           flt(m, "grossPrice"),
		UnitPrice:       flt(m, "grossUnitPrice"),
		UnitPriceSuffix: unitSuffix(str(m, "unitPriceQuantityAbbreviation")),
	}
}

// unitSuffix renders a unit abbreviation the way the origin displays it
// ("/l", "/kg"), empty when absent.
func unitSuffix(abbreviation string) string {
	if abbreviation == "" {
		return ""
	}
	return "/" + abbreviation
}

func parseRecipePage(data any, sourceURL string) domain.RecipePage {
	page := domain.RecipePage{
		SourceURL: sourceURL,
		Items:     []domain.Recipe{},
		Filters:   []domain.Filter{},
	}
	m := asMap(data)
	if m == nil {
		return page
	}
	page.HasMore = boolean(m, "hasMoreItems")
	for _, it := range list(m, "items") {
		im := asMap(it)
		if im == nil {
			continue
		}
		r := domain.Recipe{
			ID:       integer(im, "id"),
			Title:    str(im, "title"),
			ImageURL: str(im, "imageUrl"),
		}
		if r.ID == 0 {
			continue
		}
		page.Items = append(page.Items, r)
	}
	page.Filters = parseFilters(list(m, "filters"))
	return page
}

// parseFilters flattens both filter shapes into one list: group nodes (a
// display name plus nested items) and flat nodes (their own category label,
// placeholder when the origin supplies none). The facet id is always
// "<facet_name>:<facet_value>" and is passed back verbatim to apply the facet.
func parseFilters(nodes []any) []domain.Filter {
	out := []domain.Filter{}
	for _, n := range nodes {
		nm := asMap(n)
		if nm == nil {
			continue
		}
		if items := list(nm, "items"); items != nil {
			category := str(nm, "displayName")
			for _, it := range items {
				im := asMap(it)
				if im == nil {
					continue
				}
				out = append(out, parseFilter(im, category))
			}
			continue
		}
		category := str(nm, "category")
		if category == "" {
			category = defaultFilterCategory
		}
		out = append(out, parseFilter(nm, category))
	}
	return out
}

func parseFilter(m map[string]any, category string) domain.Filter {
	return domain.Filter{
		ID:          str(m, "name") + ":" + str(m, "value"),
		DisplayName: str(m, "displayName"),
		Count:       integer(m, "hits"),
		Category:    category,
	}
}

// recipeIngredient is a raw recipe ingredient: the per-portion quantity plus
// the concrete product it resolved to, if any. Used for cart submission.
type recipeIngredient struct {
	ProductID int
	Quantity  float64
	Unit      string
	Title     string
}

func parseRecipeIngredients(data any) []recipeIngredient {
	var out []recipeIngredient
	for _, in := range list(asMap(data), "ingredients") {
		im := asMap(in)
		if im == nil {
			continue
		}
		out = append(out, recipeIngredient{
			ProductID: integer(obj(im, "product"), "id"),
			Quantity:  flt(im, "quantity"),
			Unit:      str(im, "unit"),
			Title:     str(im, "title"),
		})
	}
	return out
}

// formatIngredient renders "<quantity> <unit> <title>". Whole quantities
// print without a decimal point ("2", not "2.0"); fractional ones keep the
// origin's decimal representation. This exact rule is user-visible.
func formatIngredient(ing recipeIngredient) string {
	parts := []string{strconv.FormatFloat(ing.Quantity, 'f', -1, 64)}
	if ing.Unit != "" {
		parts = append(parts, ing.Unit)
	}
	if ing.Title != "" {
		parts = append(parts, ing.Title)
	}
	return strings.Join(parts, " ")
}

func parseRecipeDetail(data any) domain.RecipeDetail {
	detail := domain.RecipeDetail{
		Ingredients:  []string{},
		Instructions: []string{},
	}
	m := asMap(data)
	if m == nil {
		return detail
	}
	detail.Name = str(m, "title")
	if detail.Name == "" {
		detail.Name = str(m, "name")
	}
	detail.Description = str(m, "description")
	detail.ImageURL = str(m, "imageUrl")

	for _, ing := range parseRecipeIngredients(data) {
		detail.Ingredients = append(detail.Ingredients, formatIngredient(ing))
	}

	// Instruction steps have appeared both as plain strings and as objects
	// with a text field.
	for _, step := range list(m, "instructions") {
		switch v := step.(type) {
		case string:
			detail.Instructions = append(detail.Instructions, v)
		case map[string]any:
			if text := str(v, "text"); text != "" {
				detail.Instructions = append(detail.Instructions, text)
			}
		}
	}
	return detail
}

// parseCart flattens the snake_cased cart payload into one ordered list:
// top-level items first, then each named group first-to-last, items within a
// group in origin order.
func parseCart(data any) []domain.CartLine {
	lines := []domain.CartLine{}
	m := asMap(data)
	if m == nil {
		return lines
	}
	for _, it := range list(m, "items") {
		if im := asMap(it); im != nil {
			lines = append(lines, parseCartLine(im))
		}
	}
	for _, g := range list(m, "groups") {
		for _, it := range list(asMap(g), "items") {
			if im := asMap(it); im != nil {
				lines = append(lines, parseCartLine(im))
			}
		}
	}
	return lines
}

func parseCartLine(m map[string]any) domain.CartLine {
	return domain.CartLine{
		ProductID:       integer(m, "product_id"),
		Name:            str(m, "full_name"),
		Subtitle:        str(m, "name_extra"),
		Quantity:        integer(m, "quantity"),
		Price:           flt(m, "gross_price"),
		UnitPrice:       flt(m, "gross_unit_price"),
		UnitPriceSuffix: unitSuffix(str(m, "unit_price_quantity_abbreviation")),
	}
}

func parseUser(data any) domain.User {
	m := asMap(data)
	return domain.User{
		FirstName: str(m, "firstName"),
		LastName:  str(m, "lastName"),
		Email:     str(m, "email"),
	}
}
