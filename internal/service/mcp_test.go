package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"oda/mcp/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient satisfies client.OdaClient with canned data and records cart
// mutations so tests can assert what the tools forwarded.
type stubClient struct {
	products domain.ProductPage
	recipes  domain.RecipePage
	detail   domain.RecipeDetail
	cart     []domain.CartLine
	userName string
	err      error

	added   []int
	removed []int
	cleared int
}

func (s *stubClient) SearchProducts(ctx context.Context, query string, page int) (domain.ProductPage, error) {
	return s.products, s.err
}

func (s *stubClient) SearchRecipes(ctx context.Context, query string, page int, filters []string) (domain.RecipePage, error) {
	return s.recipes, s.err
}

func (s *stubClient) GetRecipe(ctx context.Context, id int) (domain.RecipeDetail, error) {
	return s.detail, s.err
}

func (s *stubClient) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	return s.cart, s.err
}

func (s *stubClient) AddProduct(ctx context.Context, productID, quantity int) error {
	s.added = append(s.added, productID)
	return s.err
}

func (s *stubClient) RemoveProduct(ctx context.Context, productID, quantity int) error {
	s.removed = append(s.removed, productID)
	return s.err
}

func (s *stubClient) ClearCart(ctx context.Context) error {
	s.cleared++
	return s.err
}

func (s *stubClient) AddRecipe(ctx context.Context, recipeID, portions int) error {
	s.added = append(s.added, recipeID)
	return s.err
}

func (s *stubClient) RemoveRecipe(ctx context.Context, recipeID int) error {
	s.removed = append(s.removed, recipeID)
	return s.err
}

func (s *stubClient) Login(ctx context.Context, email, password string) error {
	return s.err
}

func (s *stubClient) CheckUser(ctx context.Context) (string, error) {
	return s.userName, s.err
}

var testImpl = &mcp.Implementation{Name: "oda-test", Version: "0.0.1"}

func mcpSession(t *testing.T, stub *stubClient) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testImpl, nil)
	New(stub).RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	session, err := mcp.NewClient(testImpl, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NoError(t, result.GetError())

	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent from %s", name)
	return tc.Text
}

func TestToolsAreListed(t *testing.T) {
	session := mcpSession(t, &stubClient{})

	listed, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range listed.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"search_products", "search_recipes", "get_recipe",
		"get_cart", "add_to_cart", "remove_from_cart", "clear_cart",
		"add_recipe_to_cart", "remove_recipe_from_cart", "whoami",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestSearchProductsTool(t *testing.T) {
	stub := &stubClient{products: domain.ProductPage{
		SourceURL: "https://oda.test/search/products/?q=melk",
		Items: []domain.Product{
			{ID: 459, Name: "Tine Helmelk", Price: 21.9, UnitPriceSuffix: "/l"},
		},
		HasMore: true,
	}}
	session := mcpSession(t, stub)

	text := callTool(t, session, "search_products", map[string]any{"query": "melk", "page": 1})

	var page domain.ProductPage
	require.NoError(t, json.Unmarshal([]byte(text), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, 459, page.Items[0].ID)
	assert.True(t, page.HasMore)
	assert.Contains(t, page.SourceURL, "q=melk")
}

func TestAddToCartTool(t *testing.T) {
	stub := &stubClient{}
	session := mcpSession(t, stub)

	text := callTool(t, session, "add_to_cart", map[string]any{"product_id": 459, "quantity": 2})

	var resp struct {
		Status    string `json:"status"`
		ProductID int    `json:"product_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 459, resp.ProductID)
	assert.Equal(t, []int{459}, stub.added)
}

func TestGetCartTool(t *testing.T) {
	stub := &stubClient{cart: []domain.CartLine{
		{ProductID: 459, Name: "Tine Helmelk", Quantity: 2, Price: 21.9},
	}}
	session := mcpSession(t, stub)

	text := callTool(t, session, "get_cart", map[string]any{})

	var resp struct {
		Items []domain.CartLine `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestWhoamiTool(t *testing.T) {
	session := mcpSession(t, &stubClient{userName: "A B"})

	text := callTool(t, session, "whoami", map[string]any{})

	var resp struct {
		LoggedIn bool   `json:"logged_in"`
		Name     string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, "A B", resp.Name)
}

func TestWhoamiToolAnonymous(t *testing.T) {
	session := mcpSession(t, &stubClient{})

	text := callTool(t, session, "whoami", map[string]any{})

	var resp struct {
		LoggedIn bool   `json:"logged_in"`
		Name     string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.False(t, resp.LoggedIn)
	assert.Empty(t, resp.Name)
}

func TestClientErrorBecomesToolError(t *testing.T) {
	stub := &stubClient{err: errors.New("request failed with status 425: ")}
	session := mcpSession(t, stub)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "clear_cart",
		Arguments: map[string]any{},
	})
	require.NoError(t, err) // tool errors never surface as protocol errors

	toolErr := result.GetError()
	require.Error(t, toolErr)
	assert.Contains(t, toolErr.Error(), "425")
}
