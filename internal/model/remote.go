package model

// RemoteTodo is a record as served by the to-do API.
type RemoteTodo struct {
	ID        int    `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// ListResponse is the body of GET /todos.
type ListResponse struct {
	Todos []RemoteTodo `json:"todos"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// TodoInput is the body of POST /todos/add. Update sends only Todo and
// Completed.
type TodoInput struct {
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}
