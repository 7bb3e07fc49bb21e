package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
	"github.com/five82/lister/internal/prefs"
	"github.com/five82/lister/internal/state"
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Products    *pager.Controller[catalog.Product]
	Contacts    *pager.Controller[catalog.Contact]
	Health      *state.Store
	Backend     string
	ThemeName   string
	PrefsPath   string
	InitialList catalog.Kind
	Tick        time.Duration
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	logger    *zap.Logger
	health    *state.Store
	backend   string
	prefsPath string
	tick      time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Data state
	panes      []pane
	active     int
	healthSnap state.Snapshot
}

// New creates a new Bubble Tea model. Controllers are owned by the caller;
// the model only subscribes to them.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	var panes []pane
	if opts.Products != nil {
		panes = append(panes, newListPane(catalog.KindProducts, opts.Products, productRows))
	}
	if opts.Contacts != nil {
		panes = append(panes, newListPane(catalog.KindContacts, opts.Contacts, contactRows))
	}
	active := 0
	for i, p := range panes {
		if p.kind() == opts.InitialList {
			active = i
		}
	}

	theme := GetTheme(themeName)
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = theme.Styles().AccentText

	return Model{
		ctx:       ctx,
		logger:    logger,
		health:    opts.Health,
		backend:   opts.Backend,
		prefsPath: opts.PrefsPath,
		tick:      tick,
		keys:      DefaultKeyMap(),
		theme:     theme,
		spinner:   sp,
		panes:     panes,
		active:    active,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.tick),
	}
	if p := m.current(); p != nil {
		cmds = append(cmds, p.mount(m.ctx))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if p := m.current(); p != nil {
			p.scroll(m.listHeight())
		}
		return m, m.maybeLoadMore()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.health != nil {
			m.healthSnap = m.health.Snapshot()
		}
		return m, tickCmd(m.tick)

	case listChangedMsg:
		p := m.paneFor(msg.kind)
		if p == nil {
			return m, nil
		}
		p.sync()
		p.scroll(m.listHeight())
		return m, p.watch()

	case opDoneMsg:
		return m.handleOpDone(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextList):
		if len(m.panes) < 2 {
			return m, nil
		}
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.panes) - 1
		}
		m.active = (m.active + step) % len(m.panes)
		m.savePrefs()
		p := m.current()
		p.sync()
		p.scroll(m.listHeight())
		return m, tea.Batch(p.mount(m.ctx), m.maybeLoadMore())
	}

	p := m.current()
	if p == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		p.selectFirst()
		p.scroll(m.listHeight())
		return m, p.refresh(m.ctx)

	case key.Matches(msg, m.keys.LoadMore):
		if retryOp(p.summary()) == pager.OpRefresh {
			return m, p.refresh(m.ctx)
		}
		return m, p.loadNext(m.ctx)

	case key.Matches(msg, m.keys.Up):
		p.move(-1)
	case key.Matches(msg, m.keys.Down):
		p.move(1)
	case key.Matches(msg, m.keys.Top):
		p.selectFirst()
	case key.Matches(msg, m.keys.Bottom):
		p.selectLast()
	case key.Matches(msg, m.keys.PageUp):
		p.move(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		p.move(m.listHeight())
	default:
		return m, nil
	}
	p.scroll(m.listHeight())
	return m, m.maybeLoadMore()
}

// handleOpDone applies a finished fetch. Skipped and cancelled operations are
// expected and dropped; failures are already recorded in the pane's state.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	p := m.paneFor(msg.kind)
	if p == nil {
		return m, nil
	}
	p.sync()
	p.scroll(m.listHeight())
	if m.health != nil {
		m.healthSnap = m.health.Snapshot()
	}

	switch {
	case msg.err == nil:
	case errors.Is(msg.err, pager.ErrSkipped), errors.Is(msg.err, pager.ErrClosed):
		return m, nil
	default:
		m.logger.Debug("list operation failed",
			zap.String("list", string(msg.kind)),
			zap.String("op", string(msg.op)),
			zap.Error(msg.err),
		)
		return m, nil
	}

	if p != m.current() {
		return m, nil
	}
	return m, m.maybeLoadMore()
}

// maybeLoadMore requests the next page when the active list is near its end.
// It runs after user input and after successful fetches only, so a failed
// page is retried by scrolling or R, never in a loop.
func (m Model) maybeLoadMore() tea.Cmd {
	p := m.current()
	if p == nil || !m.ready {
		return nil
	}
	if !p.needsMore(m.listHeight()) {
		return nil
	}
	return p.loadNext(m.ctx)
}

func (m Model) current() pane {
	if m.active < 0 || m.active >= len(m.panes) {
		return nil
	}
	return m.panes[m.active]
}

func (m Model) paneFor(kind catalog.Kind) pane {
	for _, p := range m.panes {
		if p.kind() == kind {
			return p
		}
	}
	return nil
}

// listHeight returns the rows available to list content.
func (m Model) listHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if cur := m.current(); cur != nil {
		p.List = cur.kind()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

func (m Model) close() {
	for _, p := range m.panes {
		p.close()
	}
}

// Messages

type tickMsg time.Time

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context ends.
func Run(opts Options) error {
	m := New(opts)
	defer m.close()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
