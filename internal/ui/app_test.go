package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
	"github.com/five82/lister/internal/prefs"
	"github.com/five82/lister/internal/source"
)

func newProductModel(t *testing.T, src pager.Source[catalog.Product], opts Options) Model {
	t.Helper()
	ctrl := pager.New(src)
	t.Cleanup(ctrl.Close)
	opts.Products = ctrl
	m := New(opts)
	t.Cleanup(m.close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// drain runs fetch commands synchronously until the model stops asking for more.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for range 20 {
		if cmd == nil {
			return m
		}
		msg := cmd()
		if _, ok := msg.(opDoneMsg); !ok {
			t.Fatalf("command produced %T, want opDoneMsg", msg)
		}
		m, cmd = update(t, m, msg)
	}
	t.Fatalf("model kept requesting pages")
	return m
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

// 8 rows leaves a five row list window.
var testWindow = tea.WindowSizeMsg{Width: 100, Height: 8}

func TestModel_InfiniteScroll(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(30), 10, 0)
	m := newProductModel(t, src, Options{})

	m, cmd := update(t, m, testWindow)
	if cmd == nil {
		t.Fatalf("expected first page request on first layout")
	}
	m = drain(t, m, cmd)

	// Page 1 leaves the window within the threshold, so page 2 follows.
	s := m.current().summary()
	if s.Count != 20 || s.Cursor != 3 || !s.HasMore {
		t.Fatalf("after mount = %+v, want 20 items, cursor 3, more", s)
	}

	m, cmd = press(t, m, "G")
	if cmd == nil {
		t.Fatalf("expected load when jumping to the end")
	}
	m = drain(t, m, cmd)

	s = m.current().summary()
	if s.Count != 30 || s.HasMore {
		t.Fatalf("after scroll = %+v, want 30 items and end of data", s)
	}
	if text, tone := footerStatus(s); text != "End of list · 30 items" || tone != toneDone {
		t.Fatalf("footer = %q (%d)", text, tone)
	}

	m, cmd = press(t, m, "G")
	if cmd != nil {
		t.Fatalf("no load expected at end of data")
	}
	if got := m.current().selection(); got != 29 {
		t.Fatalf("selection = %d, want 29", got)
	}
}

func TestModel_FailedPageNeedsExplicitRetry(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(30), 10, 0)
	src.FailWith(func(page int) error {
		if page == 2 {
			return errors.New("boom")
		}
		return nil
	})
	m := newProductModel(t, src, Options{})

	m, cmd := update(t, m, testWindow)
	m = drain(t, m, cmd)

	s := m.current().summary()
	if s.Count != 10 || s.Cursor != 2 || s.LastError == nil {
		t.Fatalf("after failure = %+v, want 10 items, cursor 2, error", s)
	}
	if !pager.IsSourceError(s.LastError) {
		t.Fatalf("LastError = %T, want SourceError", s.LastError)
	}
	if _, tone := footerStatus(s); tone != toneError {
		t.Fatalf("footer tone = %d, want error", tone)
	}

	// Scrolling retries; a failure does not schedule another attempt.
	m, cmd = press(t, m, "G")
	if cmd == nil {
		t.Fatalf("scrolling to the end should retry the failed page")
	}
	m = drain(t, m, cmd)
	if s := m.current().summary(); s.Count != 10 || s.LastError == nil {
		t.Fatalf("after second failure = %+v", s)
	}

	src.FailWith(nil)
	m, cmd = press(t, m, "R")
	if cmd == nil {
		t.Fatalf("R should retry")
	}
	m = drain(t, m, cmd)

	s = m.current().summary()
	if s.LastError != nil {
		t.Fatalf("LastError = %v, want cleared", s.LastError)
	}
	if s.Count < 20 || s.Cursor < 3 {
		t.Fatalf("after retry = %+v, want page 2 merged", s)
	}
}

func TestModel_RefreshKeyReloadsFirstPage(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(30), 10, 0)
	m := newProductModel(t, src, Options{})

	m, cmd := update(t, m, testWindow)
	m = drain(t, m, cmd)
	for range 4 {
		m, _ = press(t, m, "j")
	}

	src.Replace(catalog.SeedProducts(5))
	m, cmd = press(t, m, "r")
	if cmd == nil {
		t.Fatalf("expected refresh command")
	}
	if got := m.current().selection(); got != 0 {
		t.Fatalf("selection = %d, want reset to top", got)
	}
	m = drain(t, m, cmd)

	// Refresh assumes more data; the follow-up page is empty and ends the list.
	s := m.current().summary()
	if s.Count != 5 || s.HasMore || s.Cursor != 3 {
		t.Fatalf("after refresh = %+v, want 5 items, no more, cursor 3", s)
	}
}

func TestModel_RetryKeyRepeatsFailedRefresh(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(5), 10, 0)
	m := newProductModel(t, src, Options{})

	m, cmd := update(t, m, testWindow)
	m = drain(t, m, cmd)
	if s := m.current().summary(); s.HasMore {
		t.Fatalf("after mount = %+v, want end of list", s)
	}

	src.FailWith(func(int) error { return errors.New("boom") })
	m, cmd = press(t, m, "r")
	m = drain(t, m, cmd)

	s := m.current().summary()
	if retryOp(s) != pager.OpRefresh {
		t.Fatalf("LastError = %v, want refresh failure", s.LastError)
	}
	if s.Count != 5 {
		t.Fatalf("Count = %d, want items kept", s.Count)
	}
	if view := m.View(); strings.Contains(view, "more available") {
		t.Fatalf("footer advertises more data after a refresh failure:\n%s", view)
	}

	src.FailWith(nil)
	src.Replace(catalog.SeedProducts(7))
	m, cmd = press(t, m, "R")
	if cmd == nil {
		t.Fatalf("R should retry the refresh")
	}
	m = drain(t, m, cmd)

	s = m.current().summary()
	if s.LastError != nil || s.Count != 7 {
		t.Fatalf("after retry = %+v, want 7 items and no error", s)
	}
}

func TestModel_SkippedLoadIsIgnored(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(3), 10, 0)
	m := newProductModel(t, src, Options{})
	m, cmd := update(t, m, testWindow)
	m = drain(t, m, cmd)

	m, cmd = update(t, m, opDoneMsg{kind: catalog.KindProducts, op: pager.OpLoadNext, err: pager.ErrSkipped})
	if cmd != nil {
		t.Fatalf("skipped load produced a command")
	}
	if s := m.current().summary(); s.LastError != nil {
		t.Fatalf("LastError = %v, want nil", s.LastError)
	}
}

func TestModel_SwitchListAndThemePersistPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	products := pager.New(pager.Source[catalog.Product](source.NewMemory(catalog.SeedProducts(5), 10, 0)))
	contacts := pager.New(pager.Source[catalog.Contact](source.NewMemory(catalog.SeedContacts(5), 10, 0)))
	t.Cleanup(products.Close)
	t.Cleanup(contacts.Close)

	m := New(Options{
		Products:    products,
		Contacts:    contacts,
		InitialList: catalog.KindContacts,
		PrefsPath:   path,
	})
	t.Cleanup(m.close)

	if got := m.current().kind(); got != catalog.KindContacts {
		t.Fatalf("initial list = %q, want contacts", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.current().kind(); got != catalog.KindProducts {
		t.Fatalf("after tab = %q, want products", got)
	}

	m, _ = press(t, m, "T")
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", m.theme.Name)
	}

	saved := prefs.Load(path)
	if saved.Theme != "Nightfox" || saved.List != catalog.KindProducts {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_ViewShowsListAndHelp(t *testing.T) {
	src := source.NewMemory(catalog.SeedProducts(3), 10, 0)
	m := newProductModel(t, src, Options{Backend: "memory"})

	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before layout = %q", got)
	}

	m, cmd := update(t, m, testWindow)
	m = drain(t, m, cmd)

	view := m.View()
	for _, want := range []string{"lister", "memory", "Products 3", "End of list · 3 items"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestListPane_WatchWakesOnChange(t *testing.T) {
	ctrl := pager.New(pager.Source[catalog.Product](source.NewMemory(catalog.SeedProducts(12), 10, 0)))
	t.Cleanup(ctrl.Close)
	p := newListPane(catalog.KindProducts, ctrl, productRows)

	if err := ctrl.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	msg := p.watch()()
	changed, ok := msg.(listChangedMsg)
	if !ok || changed.kind != catalog.KindProducts {
		t.Fatalf("watch = %#v, want products change", msg)
	}
	p.sync()
	if got := p.summary().Count; got != 10 {
		t.Fatalf("Count = %d, want 10", got)
	}

	p.close()
	if msg := p.watch()(); msg != nil {
		t.Fatalf("watch after close = %#v, want nil", msg)
	}
	p.close()
}

func TestListPane_ScrollKeepsSelectionVisible(t *testing.T) {
	ctrl := pager.New(pager.Source[catalog.Product](source.NewMemory(catalog.SeedProducts(10), 10, 0)))
	t.Cleanup(ctrl.Close)
	p := newListPane(catalog.KindProducts, ctrl, productRows)
	t.Cleanup(p.close)

	if err := ctrl.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	p.sync()

	p.move(7)
	p.scroll(3)
	if got := p.viewport(); got != 5 {
		t.Fatalf("offset = %d, want 5", got)
	}
	p.move(-100)
	p.scroll(3)
	if got, off := p.selection(), p.viewport(); got != 0 || off != 0 {
		t.Fatalf("selection/offset = %d/%d, want 0/0", got, off)
	}
}
