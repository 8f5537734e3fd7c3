package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/todoterm/internal/api"
	"github.com/kerem/todoterm/tests/testutil"
)

func TestItemQueryStripsEmptyValues(t *testing.T) {
	query := api.ItemQuery{
		Status:    "",
		Expired:   "true",
		Name:      "",
		SortBy:    api.SortByDeadline,
		SortOrder: api.SortAsc,
	}

	values := query.Values()
	assert.Equal(t, "true", values.Get("expired"))
	assert.Equal(t, "deadline", values.Get("sortBy"))
	assert.Equal(t, "asc", values.Get("sortOrder"))
	assert.NotContains(t, values, "status")
	assert.NotContains(t, values, "name")
}

func TestItemQueryEmpty(t *testing.T) {
	assert.Empty(t, api.ItemQuery{}.Values())
}

func TestGetItemsForwardsQuery(t *testing.T) {
	srv := testutil.NewServer(t)
	client := api.NewClient(srv.URL, 5*time.Second, staticToken("tok"), nil)

	srv.Enqueue(200, `[]`)
	_, err := client.GetItems(context.Background(), 12, api.ItemQuery{
		Status:    "IN_PROGRESS",
		Name:      "milk",
		SortBy:    api.SortByName,
		SortOrder: api.SortDesc,
	})
	require.NoError(t, err)

	req := srv.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/api/lists/12/items", req.Path)
	assert.Equal(t, "IN_PROGRESS", req.Query.Get("status"))
	assert.Equal(t, "milk", req.Query.Get("name"))
	assert.Equal(t, "name", req.Query.Get("sortBy"))
	assert.Equal(t, "desc", req.Query.Get("sortOrder"))
	assert.NotContains(t, req.Query, "expired")
}

func TestGetItemsDecodesDependencies(t *testing.T) {
	srv := testutil.NewServer(t)
	client := api.NewClient(srv.URL, 5*time.Second, staticToken("tok"), nil)

	srv.Enqueue(200, `[
		{
			"id": 1, "listId": 3, "name": "Deploy",
			"status": "NOT_STARTED",
			"createdAt": "2025-03-10T09:00:00Z",
			"dependencies": [
				{"id": 2, "listId": 3, "name": "Review", "status": "IN_PROGRESS"}
			]
		}
	]`)

	items, err := client.GetItems(context.Background(), 3, api.ItemQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Dependencies, 1)
	assert.Equal(t, int64(2), items[0].Dependencies[0].ID)
	assert.Equal(t, "Review", items[0].Dependencies[0].Name)
}
