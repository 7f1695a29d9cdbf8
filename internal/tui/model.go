// Package tui renders a live portfolio view in the terminal.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/render"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

// stateMsg carries a fresh snapshot after the view changed.
type stateMsg struct {
	state view.State
}

// closedMsg reports that the view was disposed.
type closedMsg struct{}

// Model drives one view.View from the keyboard.
type Model struct {
	view      *view.View
	portfolio content.Portfolio
	updates   <-chan struct{}
	stop      func()

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	progress progress.Model

	state  view.State
	width  int
	height int
	ready  bool
}

// New subscribes to v. The caller owns v and disposes it after the program
// exits.
func New(v *view.View, p content.Portfolio) Model {
	updates, stop := v.Subscribe()
	m := Model{
		view:      v,
		portfolio: p,
		updates:   updates,
		stop:      stop,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		viewport:  viewport.New(80, 20),
		progress:  progress.New(progress.WithGradient(string(ColorCyan), string(ColorGreen)), progress.WithoutPercentage()),
		state:     v.Snapshot(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.view, m.updates)
}

// waitForChange blocks until the view signals and returns its new state.
func waitForChange(v *view.View, updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return closedMsg{}
		}
		return stateMsg{state: v.Snapshot()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(48, max(10, msg.Width-20))
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()))
		m.ready = true
		m.refresh()
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.refresh()
		return m, waitForChange(m.view, m.updates)

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.NextTab):
			m.selectTab(m.state.ActiveTab.Next())
		case key.Matches(msg, m.keys.PrevTab):
			m.selectTab(m.state.ActiveTab.Prev())
		case key.Matches(msg, m.keys.JumpTab):
			tabs := view.Tabs()
			m.selectTab(tabs[int(msg.Runes[0]-'1')])
		case key.Matches(msg, m.keys.Scan):
			m.view.StartScan()
		case key.Matches(msg, m.keys.Dismiss):
			m.view.DismissTerminal()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.state = m.view.Snapshot()
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *Model) selectTab(t view.Tab) {
	if err := m.view.SetTab(t); err == nil {
		m.viewport.GotoTop()
	}
}

// refresh re-renders the scrollable body from the current state.
func (m *Model) refresh() {
	page := render.Build(m.state, m.portfolio)
	m.viewport.SetContent(renderBody(page, m.viewport.Width))
}

func (m Model) View() string {
	if m.state.ScanActive && m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.scanOverlay())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m Model) header() string {
	c := m.portfolio.Copy
	brand := BrandStyle.Render(c.FirstName) + " " + BrandAccentStyle.Render(c.LastName)
	scan := render.Scan(m.state, c)
	status := lipgloss.JoinHorizontal(lipgloss.Center,
		PillStyle.Render(c.ThreatLevel), " ",
		SubtitleStyle.Render(c.Release), "  ",
		PillStyle.Render(scan.Button),
	)
	top := lipgloss.JoinVertical(lipgloss.Left, brand, SubtitleStyle.Render(c.Title), status)
	return lipgloss.JoinVertical(lipgloss.Left, top, renderNav(render.Nav(m.state.ActiveTab)))
}

func (m Model) footer() string {
	return FooterStyle.Render(m.help.View(m.keys))
}

func (m Model) scanOverlay() string {
	s := render.Scan(m.state, m.portfolio.Copy)
	return OverlayStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		PanelTitleStyle.Render(s.Title),
		MetaStyle.Render(s.Blurb),
		"",
		m.progress.ViewAs(float64(s.Progress)/100),
		BrandAccentStyle.Render(s.Button),
	))
}
