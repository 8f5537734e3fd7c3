package api

import (
	"context"
	"fmt"

	"github.com/kerem/todoterm/internal/model"
)

// ListRequest is the create/update payload for a todo list.
type ListRequest struct {
	Name string `json:"name"`
}

// GetLists fetches all lists owned by the authenticated user.
func (c *Client) GetLists(ctx context.Context) ([]model.TodoList, error) {
	var lists []model.TodoList
	if err := c.get(ctx, "/api/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList creates a list and returns the stored entity.
func (c *Client) CreateList(ctx context.Context, req ListRequest) (*model.TodoList, error) {
	var list model.TodoList
	if err := c.post(ctx, "/api/lists", req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList renames a list.
func (c *Client) UpdateList(ctx context.Context, listID int64, req ListRequest) (*model.TodoList, error) {
	var list model.TodoList
	path := fmt.Sprintf("/api/lists/%d", listID)
	if err := c.put(ctx, path, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList deletes a list and, server-side, all of its items.
func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/lists/%d", listID), nil, nil)
}
