// Package tui provides a Bubble Tea TUI for browsing a recorded session.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/stepsrec/internal/report"
	"github.com/fakeyudi/stepsrec/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	// Action badges
	kindPointerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	kindKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	kindClipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindSystemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabSteps
	tabActions
	tabApps
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Steps", "Actions", "Apps",
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	session   *session.Session
	summary   report.Summary
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	// Steps tab: oldest first unless toggled; cursor indexes the sorted order
	sortAsc    bool
	cursor     int
	cursorLine int          // content line of the cursor row
	expanded   map[int]bool // keyed by step number
}

// New creates a new TUI model for s, stored in dir.
func New(s *session.Session, dir string) Model {
	return Model{
		session:  s,
		summary:  report.Summarize(s.Name, dir, s.Steps),
		sortAsc:  true,
		expanded: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabSteps {
				m.sortAsc = !m.sortAsc
				m.cursor = 0
				m.rebuildStepsViewport()
				m.viewports[tabSteps].GotoTop()
			}
		case "up", "k":
			if m.activeTab == tabSteps && m.cursor > 0 {
				m.cursor--
				m.rebuildStepsViewport()
				m.followCursor()
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabSteps && m.cursor < len(m.session.Steps)-1 {
				m.cursor++
				m.rebuildStepsViewport()
				m.followCursor()
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabSteps && len(m.session.Steps) > 0 {
				n := m.sortedSteps()[m.cursor].Number
				if m.expanded[n] {
					delete(m.expanded, n)
				} else {
					m.expanded[n] = true
				}
				m.rebuildStepsViewport()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  stepsrec  " + m.session.Name)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	if m.activeTab == tabSteps {
		dir := "newest first"
		if m.sortAsc {
			dir = "oldest first"
		}
		hint += "  enter details  s sort (" + dir + ")"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildStepsViewport() {
	m.viewports[tabSteps].SetContent(m.renderTab(tabSteps))
}

// followCursor scrolls the steps viewport just enough to show the cursor row.
func (m *Model) followCursor() {
	vp := &m.viewports[tabSteps]
	switch {
	case m.cursorLine < vp.YOffset:
		vp.SetYOffset(m.cursorLine)
	case m.cursorLine >= vp.YOffset+vp.Height:
		vp.SetYOffset(m.cursorLine - vp.Height + 1)
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabSteps:
		return m.renderSteps()
	case tabActions:
		return m.renderCounts("Actions", m.summary.Actions, report.ActionLabel)
	case tabApps:
		return m.renderCounts("Top Applications", m.summary.Apps, func(s string) string { return s })
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(heading("Session Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Session:", s.Name)
	if s.ID != "" {
		row("ID:", s.ID)
	}
	if s.StartTime != nil {
		row("Started:", s.StartTime.Format("2006-01-02 15:04:05 MST"))
	}
	if n := len(s.Steps); n > 0 {
		row("Last Step:", s.Steps[n-1].Timestamp.Format("2006-01-02 15:04:05 MST"))
		if s.StartTime != nil {
			row("Duration:", s.Steps[n-1].Timestamp.Sub(*s.StartTime).Round(time.Second).String())
		}
	}
	row("Total Steps:", fmt.Sprintf("%d", s.TotalSteps))
	row("Screenshots:", fmt.Sprintf("%d", countScreenshots(s.Steps)))
	if m.summary.Dir != "" {
		row("Directory:", m.summary.Dir)
	}

	if s.Preamble != "" {
		sb.WriteString(heading("Preamble"))
		sb.WriteString(indent(s.Preamble, "  ") + "\n")
	}
	return sb.String()
}

func (m *Model) sortedSteps() []session.Step {
	steps := make([]session.Step, len(m.session.Steps))
	copy(steps, m.session.Steps)
	if !m.sortAsc {
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].Number > steps[j].Number })
	}
	return steps
}

func (m *Model) renderSteps() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Steps (%d)", len(m.session.Steps))))
	if len(m.session.Steps) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}

	for i, st := range m.sortedSteps() {
		ts := timeStyle.Render(st.Timestamp.Format("15:04:05"))
		num := dimStyle.Render(fmt.Sprintf("%4d.", st.Number))
		badge := actionBadge(st.Action)

		shot := "  "
		if st.Screenshot != "" {
			shot = dimStyle.Render("◈ ")
		}
		app := ""
		if st.Application != nil && st.Application.Name != "" {
			app = dimStyle.Render("  [" + st.Application.Name + "]")
		}

		line := fmt.Sprintf("  %s %s%s %s  %s%s", num, shot, ts, badge, report.Describe(st), app)
		if i == m.cursor {
			m.cursorLine = strings.Count(sb.String(), "\n")
			line = selectedRowStyle.Width(m.width - 2).Render(line)
		}
		sb.WriteString(line + "\n")

		if m.expanded[st.Number] {
			sb.WriteString(renderDetails(st))
		}
	}
	return sb.String()
}

func actionBadge(a session.ActionType) string {
	label := fmt.Sprintf("%-12s", string(a))
	switch a {
	case session.ActionClick, session.ActionRightClick, session.ActionMiddleClick, session.ActionScroll:
		return kindPointerStyle.Render(label)
	case session.ActionKeyPress, session.ActionKeyCombo:
		return kindKeyStyle.Render(label)
	case session.ActionCopy, session.ActionPaste, session.ActionAppSwitch:
		return kindClipStyle.Render(label)
	case session.ActionSystem:
		return kindSystemStyle.Render(label)
	}
	return label
}

// renderDetails lists a step's details in key order.
func renderDetails(st session.Step) string {
	var sb strings.Builder
	keys := make([]string, 0, len(st.Details))
	for k := range st.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("          %-16s", k)) + fmt.Sprintf("%v", st.Details[k]) + "\n")
	}
	if st.Screenshot != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("          %-16s", "screenshot")) + st.Screenshot + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m *Model) renderCounts(title string, counts []report.Count, label func(string) string) string {
	var sb strings.Builder
	sb.WriteString(heading(title))
	if len(counts) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	peak := 0
	for _, c := range counts {
		if c.Count > peak {
			peak = c.Count
		}
	}
	for _, c := range counts {
		width := 30 * c.Count / peak
		if width < 1 {
			width = 1
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-25s", label(c.Name))) +
			fmt.Sprintf(" %5d  ", c.Count) + barStyle.Render(strings.Repeat("█", width)) + "\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func countScreenshots(steps []session.Step) int {
	n := 0
	for _, st := range steps {
		if st.Screenshot != "" {
			n++
		}
	}
	return n
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI for the given session.
func Run(s *session.Session, dir string) error {
	p := tea.NewProgram(New(s, dir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
