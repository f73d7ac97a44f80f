package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/escalation"
)

// Controller is the engine surface the dashboard drives.
type Controller interface {
	Start(ctx context.Context) error
	ForceRefresh(ctx context.Context)
	ClearCache()
	ClearDegraded() bool
	Report(err error) *escalation.Failure
	Stats() engine.Stats
	ErrorLog() []escalation.Record
	MaxLogSize() int
	Shutdown(ctx context.Context) error
}

var _ Controller = (*engine.Engine)(nil)

// overlay is the panel drawn on top of the cards.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayStats
	overlayErrors
)

// Width breakpoints for card layout
const (
	BreakpointCompact = 80
	defaultCardWidth  = 40
	wideCardWidth     = 38
)

// Space reserved around the error log viewport.
const (
	overlayChrome     = 8
	minViewportHeight = 5
)

const (
	// DefaultNoticeDuration is how long transient notices stay visible.
	DefaultNoticeDuration = 4 * time.Second
	// maxVisibleNotices caps the transient notice lines under the header.
	maxVisibleNotices = 3
	shutdownTimeout   = 3 * time.Second
)

// Options configures the dashboard.
type Options struct {
	Thresholds     Thresholds
	HistorySize    int
	NoticeDuration time.Duration
	Now            func() time.Time
}

// OptionsFromConfig maps the display section of the config file.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Thresholds: Thresholds{
			Warning:  float64(c.Display.WarningThreshold),
			Critical: float64(c.Display.CriticalThreshold),
		},
		HistorySize:    c.Display.HistorySize,
		NoticeDuration: c.Display.NoticeDuration,
	}
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx  context.Context
	ctrl Controller
	opts Options
	now  func() time.Time

	snap    engine.Snapshot
	hasSnap bool
	history *History

	notices  []escalation.Notice // transient, oldest first
	blocking []escalation.Notice // need esc/enter, oldest first

	overlay  overlay
	stats    engine.Stats
	errorLog viewport.Model

	width    int
	height   int
	quitting bool
}

// NewModel creates a dashboard bound to ctrl. ctx scopes the engine run.
func NewModel(ctx context.Context, ctrl Controller, opts Options) Model {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = DefaultNoticeDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		now:      opts.Now,
		history:  NewHistory(opts.HistorySize),
		errorLog: viewport.New(defaultCardWidth*2, minViewportHeight*3),
	}
}

// Init starts the engine. Its first cycle arrives as a snapshotMsg.
func (m Model) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return engineStartedMsg{err: ctrl.Start(ctx)}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.errorLog.Width = max(m.width-overlayChrome, defaultCardWidth)
		m.errorLog.Height = max(m.height-overlayChrome, minViewportHeight)
		if m.overlay == overlayErrors {
			m.refreshErrorLog()
		}

	case snapshotMsg:
		m.snap = msg.snap
		m.hasSnap = true
		m.history.Push(msg.snap)
		switch m.overlay {
		case overlayStats:
			m.stats = m.ctrl.Stats()
		case overlayErrors:
			m.refreshErrorLog()
		}

	case noticeMsg:
		return m, m.addNotice(msg.notice)

	case noticeExpiryMsg:
		m.expireNotices()

	case engineStartedMsg:
		if msg.err != nil {
			ctrl := m.ctrl
			err := msg.err
			// Reporting notifies through the program, so it can't run on
			// the update goroutine.
			return m, func() tea.Msg {
				ctrl.Report(escalation.Wrap(err, escalation.KindUI, escalation.SeverityMedium,
					"dashboard could not start the refresh loop"))
				return nil
			}
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case len(m.blocking) > 0:
		return m.place(m.renderBlockingNotice())
	case m.overlay == overlayHelp:
		return m.place(m.renderHelp())
	case m.overlay == overlayStats:
		return m.place(m.renderStats())
	case m.overlay == overlayErrors:
		return m.place(m.renderErrorOverlay())
	}
	return m.renderDashboard()
}

// addNotice queues n. Transient notices schedule their own expiry.
func (m *Model) addNotice(n escalation.Notice) tea.Cmd {
	if n.At.IsZero() {
		n.At = m.now()
	}
	if n.Blocking {
		m.blocking = append(m.blocking, n)
		return nil
	}
	m.notices = append(m.notices, n)
	if len(m.notices) > maxVisibleNotices {
		m.notices = m.notices[len(m.notices)-maxVisibleNotices:]
	}
	return tea.Tick(m.opts.NoticeDuration, func(t time.Time) tea.Msg {
		return noticeExpiryMsg(t)
	})
}

// localNotice shows feedback for an operator action.
func (m *Model) localNotice(msg string) tea.Cmd {
	return m.addNotice(escalation.Notice{
		Severity: escalation.SeverityLow,
		Message:  msg,
		At:       m.now(),
	})
}

func (m *Model) expireNotices() {
	now := m.now()
	var kept []escalation.Notice
	for _, n := range m.notices {
		if now.Sub(n.At) < m.opts.NoticeDuration {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

// dismiss drops the oldest blocking notice, or closes the open overlay.
func (m *Model) dismiss() {
	if len(m.blocking) > 0 {
		m.blocking = m.blocking[1:]
		return
	}
	m.overlay = overlayNone
}

func (m *Model) toggleOverlay(o overlay) {
	if m.overlay == o {
		m.overlay = overlayNone
		return
	}
	m.overlay = o
	switch o {
	case overlayStats:
		m.stats = m.ctrl.Stats()
	case overlayErrors:
		m.refreshErrorLog()
		m.errorLog.GotoTop()
	}
}

func (m *Model) refreshErrorLog() {
	m.errorLog.SetContent(renderErrorLog(m.ctrl.ErrorLog(), m.errorLog.Width))
}

// Snapshot returns the most recent snapshot shown.
func (m Model) Snapshot() engine.Snapshot {
	return m.snap
}

// Notices returns the visible transient notices, oldest first.
func (m Model) Notices() []escalation.Notice {
	return m.notices
}

// BlockingNotices returns the notices waiting to be dismissed.
func (m Model) BlockingNotices() []escalation.Notice {
	return m.blocking
}
