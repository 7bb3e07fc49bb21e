package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/five82/lister/internal/pager"
)

type countingRefresher struct {
	calls atomic.Int32
	err   func(n int32) error
}

func (r *countingRefresher) Refresh(context.Context) error {
	n := r.calls.Add(1)
	if r.err != nil {
		return r.err(n)
	}
	return nil
}

func TestStartAutoRefresh_TicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRefresher{err: func(n int32) error {
		if n == 1 {
			return pager.ErrSkipped
		}
		return errors.New("boom")
	}}

	done := StartAutoRefresh(ctx, r, 5*time.Millisecond, zaptest.NewLogger(t))
	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, time.Millisecond,
		"skipped and failed refreshes keep the ticker running")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("auto refresh did not stop after cancel")
	}
}

func TestStartAutoRefresh_StopsWhenClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{err: func(int32) error { return pager.ErrClosed }}
	done := StartAutoRefresh(context.Background(), r, time.Millisecond, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("auto refresh kept running on a closed controller")
	}
	require.EqualValues(t, 1, r.calls.Load())
}

func TestStartAutoRefresh_DrivesController(t *testing.T) {
	defer goleak.VerifyNone(t)

	var version atomic.Int32
	src := pager.SourceFunc[testItem](func(_ context.Context, page int) (pager.Page[testItem], error) {
		return pager.Page[testItem]{Items: []testItem{{id: "a", v: version.Load()}}, HasMore: false}, nil
	})
	ctrl := pager.New(pager.Source[testItem](src))
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	version.Store(7)
	done := StartAutoRefresh(ctx, ctrl, 2*time.Millisecond, nil)

	require.Eventually(t, func() bool {
		st := ctrl.State()
		return len(st.Items) == 1 && st.Items[0].v == 7 && st.Cursor == 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

type testItem struct {
	id string
	v  int32
}

func (i testItem) ItemID() string { return i.id }
