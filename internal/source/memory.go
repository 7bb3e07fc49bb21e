package source

import (
	"context"
	"sync"
	"time"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

// Memory serves a slice in fixed-size pages after an artificial delay.
type Memory[T pager.Item] struct {
	mu       sync.RWMutex
	items    []T
	pageSize int
	delay    time.Duration
	failWith func(page int) error
}

var _ pager.Source[catalog.Product] = (*Memory[catalog.Product])(nil)

// NewMemory copies items into a source with the given page size and delay.
func NewMemory[T pager.Item](items []T, pageSize int, delay time.Duration) *Memory[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	m := &Memory[T]{pageSize: pageSize, delay: delay}
	m.Replace(items)
	return m
}

// Replace swaps the backing data, e.g. to simulate new records for a refresh.
func (m *Memory[T]) Replace(items []T) {
	dup := make([]T, len(items))
	copy(dup, items)
	m.mu.Lock()
	m.items = dup
	m.mu.Unlock()
}

// FailWith installs a hook consulted before every fetch; a non-nil return
// fails that fetch. Pass nil to remove it.
func (m *Memory[T]) FailWith(fn func(page int) error) {
	m.mu.Lock()
	m.failWith = fn
	m.mu.Unlock()
}

// FetchPage implements pager.Source.
func (m *Memory[T]) FetchPage(ctx context.Context, page int) (pager.Page[T], error) {
	start, err := PageOffset(page, m.pageSize)
	if err != nil {
		return pager.Page[T]{}, err
	}
	if err := sleep(ctx, m.delay); err != nil {
		return pager.Page[T]{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failWith != nil {
		if err := m.failWith(page); err != nil {
			return pager.Page[T]{}, err
		}
	}

	if start >= len(m.items) {
		return pager.Page[T]{HasMore: false}, nil
	}
	end := min(start+m.pageSize, len(m.items))
	out := make([]T, end-start)
	copy(out, m.items[start:end])
	return pager.Page[T]{Items: out, HasMore: end < len(m.items)}, nil
}

// FetchFirstPage implements pager.Source.
func (m *Memory[T]) FetchFirstPage(ctx context.Context) (pager.Page[T], error) {
	return m.FetchPage(ctx, 1)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
