package client

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	stac "github.com/planetlabs/go-stac"
)

// SortField describes a sortby entry in a search request.
type SortField struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// SearchParams is the POST /search payload.
type SearchParams struct {
	Collections []string    `json:"collections,omitempty"`
	Intersects  any         `json:"intersects,omitempty"`
	Datetime    string      `json:"datetime,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	SortBy      []SortField `json:"sortby,omitempty"`
	Filter      Expr        `json:"filter,omitempty"`
	FilterLang  string      `json:"filter-lang,omitempty"`
}

type itemPage struct {
	Type     string       `json:"type"`
	Features []*stac.Item `json:"features"`
	Links    []*stac.Link `json:"links"`
}

// Search executes a POST search and streams matching items across pages.
// The first page is requested with the JSON payload; subsequent pages
// follow rel="next" links with GET, as the EODH catalogue serves them.
func (c *Client) Search(ctx context.Context, params SearchParams) iter.Seq2[*stac.Item, error] {
	if params.Filter != nil && params.FilterLang == "" {
		params.FilterLang = "cql2-json"
	}

	return func(yield func(*stac.Item, error) bool) {
		current := c.Resolve("search")
		method := http.MethodPost
		var body any = params

		for {
			var page itemPage
			if err := c.DoJSON(ctx, method, current, body, &page); err != nil {
				yield(nil, err)
				return
			}

			for _, item := range page.Features {
				if item == nil {
					continue
				}
				if !yield(item, nil) {
					return
				}
			}

			next := nextHref(page.Links)
			if next == "" {
				return
			}
			resolved, err := url.Parse(next)
			if err != nil {
				yield(nil, fmt.Errorf("client: invalid next link %q: %w", next, err))
				return
			}
			current = c.baseURL.ResolveReference(resolved).String()
			method = http.MethodGet
			body = nil
		}
	}
}

// CollectItems drains a search sequence into a slice.
func CollectItems(seq iter.Seq2[*stac.Item, error]) ([]*stac.Item, error) {
	var items []*stac.Item
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetItem fetches a single item by collection and ID.
func (c *Client) GetItem(ctx context.Context, collectionID, itemID string) (*stac.Item, error) {
	if collectionID == "" || itemID == "" {
		return nil, fmt.Errorf("client: collection id and item id are required")
	}
	endpoint := c.Resolve(fmt.Sprintf("collections/%s/items/%s",
		url.PathEscape(collectionID), url.PathEscape(itemID)))
	var item stac.Item
	if err := c.DoJSON(ctx, http.MethodGet, endpoint, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCollection fetches a collection by ID.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*stac.Collection, error) {
	if collectionID == "" {
		return nil, fmt.Errorf("client: collection id is required")
	}
	endpoint := c.Resolve("collections/" + url.PathEscape(collectionID))
	var collection stac.Collection
	if err := c.DoJSON(ctx, http.MethodGet, endpoint, nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func nextHref(links []*stac.Link) string {
	for _, link := range links {
		if link == nil {
			continue
		}
		if strings.EqualFold(link.Rel, "next") {
			return link.Href
		}
	}
	return ""
}
