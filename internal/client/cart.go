package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"oda/mcp/internal/domain"

	log "github.com/sirupsen/logrus"
)

const (
	cartPath      = "/api/v1/cart/"
	cartItemsPath = "/api/v1/cart/items/"
	cartClearPath = "/api/v1/cart/clear/"
)

// cartItem is one line of a cart mutation. The origin models removal as a
// negative-quantity upsert on the same endpoint, not a separate delete verb;
// recipe-originated lines carry the recipe id and portion count so the origin
// can group and attribute them.
type cartItem struct {
	ProductID          int     `json:"product_id,omitempty"`
	Quantity           float64 `json:"quantity,omitempty"`
	FromRecipeID       int     `json:"from_recipe_id,omitempty"`
	FromRecipePortions int     `json:"from_recipe_portions,omitempty"`
	Delete             bool    `json:"delete,omitempty"`
}

type cartItemsRequest struct {
	Items []cartItem `json:"items"`
}

func (c *odaClient) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	resp, err := c.transport.api(ctx, http.MethodGet, cartPath, c.transport.pageURL("/cart/", nil), nil, nil)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal([]byte(resp.String()), &tree); err != nil {
		log.Warnf("unparseable cart payload: %v", err)
		return []domain.CartLine{}, nil
	}
	return parseCart(tree), nil
}

func (c *odaClient) AddProduct(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return c.submitCartItems(ctx, []cartItem{{ProductID: productID, Quantity: float64(quantity)}}, nil)
}

func (c *odaClient) RemoveProduct(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return c.submitCartItems(ctx, []cartItem{{ProductID: productID, Quantity: float64(-quantity)}}, nil)
}

func (c *odaClient) ClearCart(ctx context.Context) error {
	_, err := c.transport.api(ctx, http.MethodPost, cartClearPath, c.transport.pageURL("/cart/", nil), nil, nil)
	return err
}

// AddRecipe fetches the recipe's ingredient list, keeps only the entries that
// resolved to a concrete product, scales each per-portion quantity by
// portions (the origin's own decimal representation, no extra rounding), and
// submits the result as one batched call grouped by recipe.
func (c *odaClient) AddRecipe(ctx context.Context, recipeID, portions int) error {
	if portions < 1 {
		portions = 1
	}
	data, _, err := c.fetchRecipeData(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to fetch recipe %d: %w", recipeID, err)
	}

	var items []cartItem
	for _, ing := range parseRecipeIngredients(data) {
		if ing.ProductID == 0 {
			continue // no concrete product behind this ingredient
		}
		items = append(items, cartItem{
			ProductID:          ing.ProductID,
			Quantity:           ing.Quantity * float64(portions),
			FromRecipeID:       recipeID,
			FromRecipePortions: portions,
		})
	}
	if len(items) == 0 {
		return fmt.Errorf("recipe %d has no purchasable ingredients", recipeID)
	}

	log.Debugf("adding recipe %d (%d portions): %d ingredient lines", recipeID, portions, len(items))
	return c.submitCartItems(ctx, items, map[string]string{"group_by": "recipe"})
}

func (c *odaClient) RemoveRecipe(ctx context.Context, recipeID int) error {
	return c.submitCartItems(ctx, []cartItem{{FromRecipeID: recipeID, Delete: true}}, nil)
}

func (c *odaClient) submitCartItems(ctx context.Context, items []cartItem, params map[string]string) error {
	_, err := c.transport.api(ctx, http.MethodPost, cartItemsPath,
		c.transport.pageURL("/cart/", nil), cartItemsRequest{Items: items}, params)
	return err
}
