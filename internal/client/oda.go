package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"oda/mcp/internal/config"
	"oda/mcp/internal/domain"
	"oda/mcp/internal/session"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// OdaClient is the data-acquisition and session/cart protocol layer toward
// the origin. One client owns one logical session; all operations are
// sequential request/response round trips.
//
// Searches and reads degrade to empty read-models when the expected embedded
// data is absent. Mutations and protocol failures are always surfaced:
// ErrTooEarly for transient overload, *RequestError otherwise.
type OdaClient interface {
	SearchProducts(ctx context.Context, query string, page int) (domain.ProductPage, error)
	SearchRecipes(ctx context.Context, query string, page int, filters []string) (domain.RecipePage, error)
	GetRecipe(ctx context.Context, recipeID int) (domain.RecipeDetail, error)

	GetCart(ctx context.Context) ([]domain.CartLine, error)
	AddProduct(ctx context.Context, productID, quantity int) error
	RemoveProduct(ctx context.Context, productID, quantity int) error
	ClearCart(ctx context.Context) error
	AddRecipe(ctx context.Context, recipeID, portions int) error
	RemoveRecipe(ctx context.Context, recipeID int) error

	Login(ctx context.Context, email, password string) error
	CheckUser(ctx context.Context) (string, error)
}

type odaClient struct {
	transport *transport
	session   *session.Store
}

func NewOdaClient(cfg config.OdaConfig, sess *session.Store) OdaClient {
	return &odaClient{
		transport: newTransport(cfg, sess),
		session:   sess,
	}
}

func (c *odaClient) SearchProducts(ctx context.Context, query string, page int) (domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	params := map[string]string{
		"q":    query,
		"page": strconv.Itoa(page),
	}
	sourceURL := c.transport.pageURL("/search/products/", params)

	html, err := c.transport.document(ctx, "/search/products/", params)
	if err != nil {
		return domain.ProductPage{SourceURL: sourceURL, Items: []domain.Product{}}, err
	}

	data := queryData(embeddedState(parseHTML(html)), tagSearchResults)
	if data == nil {
		// Either genuinely zero results or the markup changed; both yield the
		// empty model, so leave a trace for the latter case.
		log.Debugf("no %s data in %s", tagSearchResults, sourceURL)
	}
	result := parseProductPage(data, sourceURL)
	log.Debugf("product search %q page %d: %d items, has_more=%v", query, page, len(result.Items), result.HasMore)
	return result, nil
}

func (c *odaClient) SearchRecipes(ctx context.Context, query string, page int, filters []string) (domain.RecipePage, error) {
	if page < 1 {
		page = 1
	}
	params := map[string]string{
		"q":    query,
		"page": strconv.Itoa(page),
	}
	if len(filters) > 0 {
		// Facet ids are opaque and applied verbatim, comma separated.
		params["filters"] = strings.Join(filters, ",")
	}
	sourceURL := c.transport.pageURL("/recipes/all/", params)

	html, err := c.transport.document(ctx, "/recipes/all/", params)
	if err != nil {
		return domain.RecipePage{SourceURL: sourceURL, Items: []domain.Recipe{}, Filters: []domain.Filter{}}, err
	}

	data := queryData(embeddedState(parseHTML(html)), tagSearchResults)
	if data == nil {
		log.Debugf("no %s data in %s", tagSearchResults, sourceURL)
	}
	result := parseRecipePage(data, sourceURL)
	log.Debugf("recipe search %q page %d: %d items, %d filters", query, page, len(result.Items), len(result.Filters))
	return result, nil
}

func (c *odaClient) GetRecipe(ctx context.Context, recipeID int) (domain.RecipeDetail, error) {
	data, doc, err := c.fetchRecipeData(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{Ingredients: []string{}, Instructions: []string{}}, err
	}

	detail := parseRecipeDetail(data)

	// The structured-data blocks often carry the image and description even
	// when the dehydrated record omits them.
	if detail.Name == "" || detail.Description == "" || detail.ImageURL == "" {
		for _, node := range structuredData(doc) {
			if str(node, "@type") != "Recipe" {
				continue
			}
			if detail.Name == "" {
				detail.Name = str(node, "name")
			}
			if detail.Description == "" {
				detail.Description = str(node, "description")
			}
			if detail.ImageURL == "" {
				detail.ImageURL = str(node, "image")
			}
		}
	}
	return detail, nil
}

// fetchRecipeData fetches a recipe page and returns its tagged dehydrated
// record (nil when absent) along with the parsed document.
func (c *odaClient) fetchRecipeData(ctx context.Context, recipeID int) (any, *goquery.Document, error) {
	path := fmt.Sprintf("/recipes/%d", recipeID)
	html, err := c.transport.document(ctx, path, nil)
	if err != nil {
		return nil, nil, err
	}
	doc := parseHTML(html)
	data := queryData(embeddedState(doc), tagRecipeDetail)
	if data == nil {
		log.Debugf("no %s data for recipe %d", tagRecipeDetail, recipeID)
	}
	return data, doc, nil
}
