package pager

import "context"

// Item is the constraint for list elements. ItemID must be unique within a list.
type Item interface {
	ItemID() string
}

// Page is the result of one fetch. HasMore=false is the only end-of-data signal;
// an empty Items slice alone never ends the list.
type Page[T Item] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"hasMore"`
}

// Source supplies pages to a Controller. Page numbers start at 1.
// Implementations must not return an error for "no more data".
type Source[T Item] interface {
	FetchPage(ctx context.Context, page int) (Page[T], error)
	FetchFirstPage(ctx context.Context) (Page[T], error)
}

// SourceFunc adapts a function to Source. FetchFirstPage requests page 1.
type SourceFunc[T Item] func(ctx context.Context, page int) (Page[T], error)

// FetchPage implements Source.
func (f SourceFunc[T]) FetchPage(ctx context.Context, page int) (Page[T], error) {
	return f(ctx, page)
}

// FetchFirstPage implements Source.
func (f SourceFunc[T]) FetchFirstPage(ctx context.Context) (Page[T], error) {
	return f(ctx, 1)
}
