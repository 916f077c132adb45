package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers every grocery tool on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerSearchProducts(srv)
	s.registerSearchRecipes(srv)
	s.registerGetRecipe(srv)
	s.registerGetCart(srv)
	s.registerAddToCart(srv)
	s.registerRemoveFromCart(srv)
	s.registerClearCart(srv)
	s.registerAddRecipeToCart(srv)
	s.registerRemoveRecipeFromCart(srv)
	s.registerWhoami(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool decodes the tool arguments into Req, runs the handler, and returns
// its response as one JSON text content. Handler errors become tool errors,
// never protocol errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := handler(ctx, r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- search ---

type searchProductsReq struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

func (s *Service) registerSearchProducts(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "search_products",
		Description: "Search the grocery catalog. Some searches give better results in norwegian, e.g. melk instead of milk. Pass an increasing page while has_more is true to continue.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms"},
			"page":  map[string]any{"type": "integer", "description": "Result page, starting at 1"},
		}, []string{"query"}),
	}
	addTool(srv, tool, func(ctx context.Context, r searchProductsReq) (any, error) {
		return s.client.SearchProducts(ctx, r.Query, r.Page)
	})
}

type searchRecipesReq struct {
	Query   string   `json:"query"`
	Page    int      `json:"page"`
	Filters []string `json:"filters"`
}

func (s *Service) registerSearchRecipes(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "search_recipes",
		Description: "Search recipes. The response lists available filters; pass their ids back verbatim to refine the search.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms"},
			"page":  map[string]any{"type": "integer", "description": "Result page, starting at 1"},
			"filters": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Filter ids from a previous search, applied unchanged",
			},
		}, []string{"query"}),
	}
	addTool(srv, tool, func(ctx context.Context, r searchRecipesReq) (any, error) {
		return s.client.SearchRecipes(ctx, r.Query, r.Page, r.Filters)
	})
}

type recipeReq struct {
	RecipeID int `json:"recipe_id"`
}

func (s *Service) registerGetRecipe(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_recipe",
		Description: "Fetch one recipe: ingredients and instructions.",
		InputSchema: inputSchema(map[string]any{
			"recipe_id": map[string]any{"type": "integer", "description": "Recipe id from a recipe search"},
		}, []string{"recipe_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r recipeReq) (any, error) {
		return s.client.GetRecipe(ctx, r.RecipeID)
	})
}

// --- cart ---

func (s *Service) registerGetCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_cart",
		Description: "List the items currently in the shopping cart.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(ctx context.Context, _ struct{}) (any, error) {
		lines, err := s.client.GetCart(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"items": lines}, nil
	})
}

type cartMutationReq struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (s *Service) registerAddToCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Repeated calls add repeated quantity.",
		InputSchema: inputSchema(map[string]any{
			"product_id": map[string]any{"type": "integer", "description": "Product id from a search"},
			"quantity":   map[string]any{"type": "integer", "description": "How many to add, default 1"},
		}, []string{"product_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r cartMutationReq) (any, error) {
		if err := s.client.AddProduct(ctx, r.ProductID, r.Quantity); err != nil {
			return nil, err
		}
		return map[string]any{"status": "ok", "product_id": r.ProductID}, nil
	})
}

func (s *Service) registerRemoveFromCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "remove_from_cart",
		Description: "Remove a product from the cart.",
		InputSchema: inputSchema(map[string]any{
			"product_id": map[string]any{"type": "integer", "description": "Product id of the cart line"},
			"quantity":   map[string]any{"type": "integer", "description": "How many to remove, default 1"},
		}, []string{"product_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r cartMutationReq) (any, error) {
		if err := s.client.RemoveProduct(ctx, r.ProductID, r.Quantity); err != nil {
			return nil, err
		}
		return map[string]any{"status": "ok", "product_id": r.ProductID}, nil
	})
}

func (s *Service) registerClearCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "clear_cart",
		Description: "Remove everything from the cart.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(ctx context.Context, _ struct{}) (any, error) {
		if err := s.client.ClearCart(ctx); err != nil {
			return nil, err
		}
		return map[string]any{"status": "ok"}, nil
	})
}

type addRecipeReq struct {
	RecipeID int `json:"recipe_id"`
	Portions int `json:"portions"`
}

func (s *Service) registerAddRecipeToCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "add_recipe_to_cart",
		Description: "Add all purchasable ingredients of a recipe to the cart, scaled to the given number of portions.",
		InputSchema: inputSchema(map[string]any{
			"recipe_id": map[string]any{"type": "integer", "description": "Recipe id from a recipe search"},
			"portions":  map[string]any{"type": "integer", "description": "Portions to shop for, default 1"},
		}, []string{"recipe_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r addRecipeReq) (any, error) {
		if err := s.client.AddRecipe(ctx, r.RecipeID, r.Portions); err != nil {
			return nil, err
		}
		return map[string]any{"status": "ok", "recipe_id": r.RecipeID}, nil
	})
}

func (s *Service) registerRemoveRecipeFromCart(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "remove_recipe_from_cart",
		Description: "Remove a previously added recipe and its ingredient lines from the cart.",
		InputSchema: inputSchema(map[string]any{
			"recipe_id": map[string]any{"type": "integer", "description": "Recipe id that was added earlier"},
		}, []string{"recipe_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r recipeReq) (any, error) {
		if err := s.client.RemoveRecipe(ctx, r.RecipeID); err != nil {
			return nil, err
		}
		return map[string]any{"status": "ok", "recipe_id": r.RecipeID}, nil
	})
}

// --- auth ---

func (s *Service) registerWhoami(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "whoami",
		Description: "Report which account the session is logged in as, if any.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(ctx context.Context, _ struct{}) (any, error) {
		name, err := s.client.CheckUser(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"logged_in": name != "",
			"name":      name,
		}, nil
	})
}
