package model

// TodoList is a named collection of todo items owned by one user.
// Deleting a list cascades to its items on the server.
type TodoList struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}
