package source

import (
	"context"

	"github.com/five82/lister/internal/pager"
	"github.com/five82/lister/internal/state"
)

type observed[T pager.Item] struct {
	src   pager.Source[T]
	store *state.Store
}

// Observe wraps src so every fetch outcome is recorded in store.
func Observe[T pager.Item](src pager.Source[T], store *state.Store) pager.Source[T] {
	if store == nil {
		return src
	}
	return &observed[T]{src: src, store: store}
}

func (o *observed[T]) FetchPage(ctx context.Context, page int) (pager.Page[T], error) {
	p, err := o.src.FetchPage(ctx, page)
	o.store.Record(err)
	return p, err
}

func (o *observed[T]) FetchFirstPage(ctx context.Context) (pager.Page[T], error) {
	p, err := o.src.FetchFirstPage(ctx)
	o.store.Record(err)
	return p, err
}
