// Package catalog is a thin filtered-read facade over the Supabase tables
// backing the pub catalog (products, events, stores). Rows come back in
// their stored language; localization happens downstream in the model
// prompt, never here.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Config holds the Supabase connection settings.
type Config struct {
	URL    string
	APIKey string
}

// Client implements the catalog reads.
type Client struct {
	client *supabase.Client
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("catalog: supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog: supabase API key is required")
	}
	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create supabase client: %w", err)
	}
	return &Client{client: client}, nil
}

// SearchProducts matches query against product name, description and
// category, capped at 5 rows.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	var products []Product
	filter := fmt.Sprintf("name.ilike.%%%s%%,description.ilike.%%%s%%,category.ilike.%%%s%%", query, query, query)
	_, err := c.client.From("products").
		Select("*", "", false).
		Or(filter, "").
		Limit(5, "").
		ExecuteTo(&products)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// FullMenu returns every product ordered by name.
func (c *Client) FullMenu(ctx context.Context) ([]MenuItem, error) {
	var rows []productRow
	_, err := c.client.From("products").
		Select("name, category, base_price, description", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	menu := make([]MenuItem, 0, len(rows))
	for _, r := range rows {
		menu = append(menu, MenuItem{
			Name:        r.Name,
			Type:        r.Category,
			Price:       r.BasePrice,
			Description: r.Description,
		})
	}
	return menu, nil
}

// SearchEvents returns upcoming events, optionally filtered by query,
// soonest first, capped at 5 rows.
func (c *Client) SearchEvents(ctx context.Context, query string) ([]Event, error) {
	q := c.client.From("events").
		Select("*", "", false).
		Gte("start_date", time.Now().UTC().Format(time.RFC3339)).
		Order("start_date", &postgrest.OrderOpts{Ascending: true})
	if query != "" {
		filter := fmt.Sprintf("title.ilike.%%%s%%,description.ilike.%%%s%%", query, query)
		q = q.Or(filter, "")
	}
	var events []Event
	if _, err := q.Limit(5, "").ExecuteTo(&events); err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return events, nil
}

// AllStores returns every store row. The locator runs its matching passes
// in memory because the accent-stripped comparisons cannot be expressed as
// a PostgREST filter.
func (c *Client) AllStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	_, err := c.client.From("stores").
		Select("*", "", false).
		ExecuteTo(&stores)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stores: %w", err)
	}
	return stores, nil
}
