package source

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

func TestMemory_PagesAndHasMore(t *testing.T) {
	m := NewMemory(catalog.SeedContacts(7), 3, 0)
	ctx := context.Background()

	p1, err := m.FetchFirstPage(ctx)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 3)
	assert.True(t, p1.HasMore)

	p3, err := m.FetchPage(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, p3.Items, 1)
	assert.False(t, p3.HasMore)

	p4, err := m.FetchPage(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, p4.Items)
	assert.False(t, p4.HasMore)

	_, err = m.FetchPage(ctx, 0)
	assert.ErrorContains(t, err, "invalid page")

	_, err = m.FetchPage(ctx, math.MaxInt)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestMemory_ExactMultipleEndsOnLastFullPage(t *testing.T) {
	m := NewMemory(catalog.SeedProducts(6), 3, 0)

	p2, err := m.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, p2.Items, 3)
	assert.False(t, p2.HasMore)
}

func TestMemory_DelayHonorsContext(t *testing.T) {
	m := NewMemory(catalog.SeedProducts(3), 3, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.FetchPage(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMemory_FailWithAndReplace(t *testing.T) {
	m := NewMemory(catalog.SeedProducts(4), 2, 0)
	boom := errors.New("boom")
	m.FailWith(func(page int) error {
		if page == 2 {
			return boom
		}
		return nil
	})

	_, err := m.FetchPage(context.Background(), 2)
	assert.ErrorIs(t, err, boom)

	m.FailWith(nil)
	fresh := []catalog.Product{{ID: "new", Name: "New"}}
	m.Replace(fresh)
	p, err := m.FetchFirstPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, p.Items)
	assert.False(t, p.HasMore)
}

func TestMemory_DrivesController(t *testing.T) {
	m := NewMemory(catalog.SeedContacts(10), 4, 0)
	ctrl := pager.New[catalog.Contact](m)
	defer ctrl.Close()

	for {
		err := ctrl.LoadNext(context.Background())
		if errors.Is(err, pager.ErrSkipped) {
			break
		}
		require.NoError(t, err)
	}
	st := ctrl.State()
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 4, st.Cursor)
	assert.False(t, st.HasMore)
}
