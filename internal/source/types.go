package source

import "github.com/five82/lister/internal/pager"

// PageResponse mirrors the payload of the paged list endpoints.
type PageResponse[T pager.Item] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"hasMore"`
	Page    int  `json:"page"`
}

// AsPage converts the response to a pager.Page.
func (r PageResponse[T]) AsPage() pager.Page[T] {
	return pager.Page[T]{Items: r.Items, HasMore: r.HasMore}
}

// ErrorResponse is the body returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse mirrors /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
