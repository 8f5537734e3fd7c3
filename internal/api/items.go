package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kerem/todoterm/internal/model"
)

// Sort field and order values accepted by the backend's item query.
const (
	SortByCreateDate = "createdate"
	SortByDeadline   = "deadline"
	SortByName       = "name"
	SortByStatus     = "status"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ItemQuery holds the filter and sort criteria for an item fetch.
// Filtering and sorting happen on the backend; the client only
// forwards the criteria.
type ItemQuery struct {
	// Status filters by stored status; empty means all.
	Status string

	// Expired filters by derived expiry: "true", "false", or empty.
	Expired string

	// Name is a substring search on item names.
	Name string

	SortBy    string
	SortOrder string
}

// Values renders the query as URL parameters, stripping empty entries
// so the backend only sees criteria that are actually set.
func (q ItemQuery) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("status", q.Status)
	set("expired", q.Expired)
	set("name", q.Name)
	set("sortBy", q.SortBy)
	set("sortOrder", q.SortOrder)
	return values
}

// ItemRequest is the create/update payload for a todo item. Deadline is
// a full timestamp string or empty; the forms build it from a date-only
// input with the end of day appended.
type ItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
	Status      string `json:"status"`
}

// GetItems fetches the items of a list, filtered and sorted per query.
func (c *Client) GetItems(ctx context.Context, listID int64, query ItemQuery) ([]model.TodoItem, error) {
	var items []model.TodoItem
	path := fmt.Sprintf("/api/lists/%d/items", listID)
	if err := c.get(ctx, path, query.Values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem adds an item to a list and returns the stored entity with
// its server-assigned fields.
func (c *Client) CreateItem(ctx context.Context, listID int64, req ItemRequest) (*model.TodoItem, error) {
	var item model.TodoItem
	path := fmt.Sprintf("/api/lists/%d/items", listID)
	if err := c.post(ctx, path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem edits an item.
func (c *Client) UpdateItem(ctx context.Context, listID, itemID int64, req ItemRequest) (*model.TodoItem, error) {
	var item model.TodoItem
	path := fmt.Sprintf("/api/lists/%d/items/%d", listID, itemID)
	if err := c.put(ctx, path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item. Incident dependency edges are removed by
// the server.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID int64) error {
	path := fmt.Sprintf("/api/lists/%d/items/%d", listID, itemID)
	return c.delete(ctx, path, nil, nil)
}

// CompleteItem marks an item COMPLETED. The server rejects the request
// while any dependency is not COMPLETED; that message is surfaced as-is.
func (c *Client) CompleteItem(ctx context.Context, listID, itemID int64) (*model.TodoItem, error) {
	var item model.TodoItem
	path := fmt.Sprintf("/api/lists/%d/items/%d/complete", listID, itemID)
	if err := c.patch(ctx, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddDependency records that itemID depends on depID. Cycle detection
// is the server's job; conflicts come back as structured errors.
func (c *Client) AddDependency(ctx context.Context, listID, itemID, depID int64) error {
	path := fmt.Sprintf("/api/lists/%d/items/%d/dependencies/%d", listID, itemID, depID)
	return c.post(ctx, path, nil, nil)
}

// RemoveDependency removes a dependency edge.
func (c *Client) RemoveDependency(ctx context.Context, listID, itemID, depID int64) error {
	path := fmt.Sprintf("/api/lists/%d/items/%d/dependencies/%d", listID, itemID, depID)
	return c.delete(ctx, path, nil, nil)
}
