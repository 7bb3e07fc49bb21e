package ui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

// row is one rendered line of a list. Item rows are numbered in display
// order; section headers carry ordinal -1.
type row struct {
	text    string
	header  bool
	ordinal int
}

// paneSummary is the non-generic view of a pane's controller state.
type paneSummary struct {
	Count       int
	Cursor      int
	LoadingMore bool
	Refreshing  bool
	HasMore     bool
	LastError   error
}

// pane hides the item type of a listPane from the Model.
type pane interface {
	kind() catalog.Kind
	summary() paneSummary
	rows() []row
	selection() int
	viewport() (offset int)
	move(delta int)
	selectFirst()
	selectLast()
	scroll(height int)
	sync()
	mount(ctx context.Context) tea.Cmd
	watch() tea.Cmd
	loadNext(ctx context.Context) tea.Cmd
	refresh(ctx context.Context) tea.Cmd
	needsMore(height int) bool
	close()
}

// listChangedMsg signals that a pane's controller state changed.
type listChangedMsg struct {
	kind catalog.Kind
}

// opDoneMsg reports a finished LoadNext or Refresh.
type opDoneMsg struct {
	kind catalog.Kind
	op   pager.Op
	err  error
}

type listPane[T pager.Item] struct {
	k      catalog.Kind
	ctrl   *pager.Controller[T]
	layout func(items []T) []row

	st      pager.State[T]
	cache   []row
	cacheAt uint64
	sel     int
	offset  int
	mounted bool

	changed   chan struct{}
	done      chan struct{}
	unsub     func()
	closeOnce sync.Once
}

func newListPane[T pager.Item](kind catalog.Kind, ctrl *pager.Controller[T], layout func([]T) []row) *listPane[T] {
	p := &listPane[T]{
		k:       kind,
		ctrl:    ctrl,
		layout:  layout,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	// Coalesce notifications: the pane re-reads the full state on wake-up.
	p.unsub = ctrl.Subscribe(func(pager.State[T]) {
		select {
		case p.changed <- struct{}{}:
		default:
		}
	})
	p.st = ctrl.State()
	return p
}

func (p *listPane[T]) kind() catalog.Kind { return p.k }

func (p *listPane[T]) summary() paneSummary {
	return paneSummary{
		Count:       len(p.st.Items),
		Cursor:      p.st.Cursor,
		LoadingMore: p.st.LoadingMore,
		Refreshing:  p.st.Refreshing,
		HasMore:     p.st.HasMore,
		LastError:   p.st.LastError,
	}
}

func (p *listPane[T]) rows() []row {
	if p.cache == nil || p.cacheAt != p.st.Revision {
		p.cache = p.layout(p.st.Items)
		p.cacheAt = p.st.Revision
	}
	return p.cache
}

func (p *listPane[T]) selection() int { return p.sel }

func (p *listPane[T]) viewport() int { return p.offset }

func (p *listPane[T]) move(delta int) {
	p.sel += delta
	p.clamp()
}

func (p *listPane[T]) selectFirst() { p.sel = 0 }

func (p *listPane[T]) selectLast() {
	p.sel = len(p.st.Items) - 1
	p.clamp()
}

func (p *listPane[T]) clamp() {
	if p.sel >= len(p.st.Items) {
		p.sel = len(p.st.Items) - 1
	}
	if p.sel < 0 {
		p.sel = 0
	}
}

// scroll adjusts the viewport so the selected row is visible.
func (p *listPane[T]) scroll(height int) {
	if height <= 0 {
		return
	}
	rows := p.rows()
	line := 0
	for i, r := range rows {
		if r.ordinal == p.sel {
			line = i
			break
		}
	}
	// Keep a section header visible above its first item.
	top := line
	if top > 0 && rows[top-1].header {
		top--
	}
	if top < p.offset {
		p.offset = top
	}
	if line >= p.offset+height {
		p.offset = line - height + 1
	}
	if maxOffset := max(len(rows)-height, 0); p.offset > maxOffset {
		p.offset = maxOffset
	}
}

func (p *listPane[T]) sync() {
	p.st = p.ctrl.State()
	p.clamp()
}

// mount issues the first LoadNext the first time the pane is shown.
func (p *listPane[T]) mount(ctx context.Context) tea.Cmd {
	if p.mounted {
		return nil
	}
	p.mounted = true
	return tea.Batch(p.watch(), p.loadNext(ctx))
}

func (p *listPane[T]) watch() tea.Cmd {
	changed, done, kind := p.changed, p.done, p.k
	return func() tea.Msg {
		select {
		case <-changed:
			return listChangedMsg{kind: kind}
		case <-done:
			return nil
		}
	}
}

func (p *listPane[T]) loadNext(ctx context.Context) tea.Cmd {
	ctrl, kind := p.ctrl, p.k
	return func() tea.Msg {
		return opDoneMsg{kind: kind, op: pager.OpLoadNext, err: ctrl.LoadNext(ctx)}
	}
}

func (p *listPane[T]) refresh(ctx context.Context) tea.Cmd {
	ctrl, kind := p.ctrl, p.k
	return func() tea.Msg {
		return opDoneMsg{kind: kind, op: pager.OpRefresh, err: ctrl.Refresh(ctx)}
	}
}

// needsMore reports whether the selection or an underfilled screen is close
// enough to the end of the loaded items to fetch the next page.
func (p *listPane[T]) needsMore(height int) bool {
	if !p.st.HasMore || p.st.LoadingMore || p.st.Refreshing {
		return false
	}
	return pager.NearEnd(max(p.sel, height-1), len(p.st.Items), LoadThreshold)
}

// close drops the subscription and releases a pending watch. The controller
// itself belongs to the caller.
func (p *listPane[T]) close() {
	p.closeOnce.Do(func() {
		p.unsub()
		close(p.done)
	})
}

// productRows lays out products as aligned columns.
func productRows(items []catalog.Product) []row {
	out := make([]row, len(items))
	for i, it := range items {
		out[i] = row{
			text:    fmt.Sprintf("%-28s %-12s %10s", it.Name, it.Category, it.Price()),
			ordinal: i,
		}
	}
	return out
}

// contactRows lays out contacts in alphabetical sections.
func contactRows(items []catalog.Contact) []row {
	sections := catalog.Sections(items)
	out := make([]row, 0, len(items)+len(sections))
	n := 0
	for _, sec := range sections {
		out = append(out, row{text: sec.Title, header: true, ordinal: -1})
		for _, c := range sec.Contacts {
			out = append(out, row{
				text:    fmt.Sprintf("%-24s %s", c.Name, c.Email),
				ordinal: n,
			})
			n++
		}
	}
	return out
}
