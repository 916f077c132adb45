package client

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// The origin's rendering framework inlines its pre-fetched query results as a
// serialized object tree in a single well-known script element, and marks up
// page metadata in separate structured-data script blocks. Both extraction
// passes are pure string-to-structure parses with no network I/O.

// nextDataID is the element id of the script block holding the embedded state.
const nextDataID = "__NEXT_DATA__"

// Query tags: the first element of a dehydrated query's key path names the
// semantic dataset it holds.
const (
	tagSearchResults = "searchResults"
	tagRecipeDetail  = "recipeDetail"
	tagCurrentUser   = "currentUser"
)

// parseHTML builds a goquery document; a document that cannot be parsed at
// all counts as carrying no data, not as a failure.
func parseHTML(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Debugf("unparseable document: %v", err)
		return nil
	}
	return doc
}

// embeddedState returns the server-rendered state tree inlined in the
// document, or nil when the page carries none. Absence typically means the
// origin returned a non-data page (an error or interstitial), which is a
// legitimate page state rather than a failure.
func embeddedState(doc *goquery.Document) map[string]any {
	if doc == nil {
		return nil
	}
	text := doc.Find("script#" + nextDataID).First().Text()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var tree map[string]any
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		log.Debugf("malformed embedded state: %v", err)
		return nil
	}
	return tree
}

// structuredData parses every application/ld+json block in the document. A
// single malformed block is skipped; the rest of the scan continues.
func structuredData(doc *goquery.Document) []map[string]any {
	if doc == nil {
		return nil
	}
	var out []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var node map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			log.Debugf("skipping malformed structured-data block %d: %v", i, err)
			return
		}
		out = append(out, node)
	})
	return out
}

// queryData returns the data payload of the first dehydrated query whose key
// path starts with tag, in tree order. Any missing level on the way (props,
// pageProps, dehydratedState, queries) means the document simply does not
// carry that dataset; nil is returned, never an error.
func queryData(tree map[string]any, tag string) any {
	queries := list(obj(obj(obj(tree, "props"), "pageProps"), "dehydratedState"), "queries")
	for _, q := range queries {
		qm := asMap(q)
		if qm == nil {
			continue
		}
		key := list(qm, "queryKey")
		if len(key) == 0 {
			continue
		}
		if s, ok := key[0].(string); ok && s == tag {
			return obj(qm, "state")["data"]
		}
	}
	return nil
}
