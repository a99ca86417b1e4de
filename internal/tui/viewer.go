package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/trace"
)

const (
	keyCtrlC = "ctrl+c"
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// ViewMode is the active screen.
type ViewMode int

const (
	RunListView ViewMode = iota
	TreeView
	DetailView
)

// treeRow is one visible line of the execution tree.
type treeRow struct {
	node  *graph.DisplayNode
	depth int
}

// Model is the bubbletea model for the run viewer.
type Model struct {
	store *trace.Store
	runs  []trace.RunManifest

	viewMode  ViewMode
	runCursor int

	// Loaded run state
	run    *trace.RunData
	result *graph.Result
	rows   []treeRow
	cursor int

	viewport viewport.Model
	ready    bool
	width    int
	height   int
	loadErr  string
}

// NewViewer creates a viewer over the runs in the store.
func NewViewer(store *trace.Store, runs []trace.RunManifest) Model {
	return Model{
		store:    store,
		runs:     runs,
		viewMode: RunListView,
		viewport: viewport.New(60, 20),
	}
}

// Run starts the interactive viewer.
func Run(store *trace.Store) error {
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs found in %s", store.Root())
	}
	_, err = tea.NewProgram(NewViewer(store, runs), tea.WithAltScreen()).Run()
	return err
}

// ShowRun opens the viewer directly on one run's tree.
func ShowRun(store *trace.Store, runID string) error {
	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	m := NewViewer(store, runs)
	for i, run := range runs {
		if run.RunID == runID {
			m.runCursor = i
			break
		}
	}
	m.loadRun(runID)
	if m.loadErr != "" {
		return fmt.Errorf("%s", m.loadErr)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", keyCtrlC:
			return m, tea.Quit

		case keyUp, "k":
			m.moveCursor(-1)
		case keyDown, "j":
			m.moveCursor(1)

		case keyEnter:
			switch m.viewMode {
			case RunListView:
				m.loadSelectedRun()
			case TreeView:
				if len(m.rows) > 0 {
					m.viewMode = DetailView
					m.viewport.SetContent(m.detailContent())
					m.viewport.GotoTop()
				}
			}

		case keyEsc:
			switch m.viewMode {
			case DetailView:
				m.viewMode = TreeView
			case TreeView:
				m.viewMode = RunListView
				m.run = nil
				m.result = nil
				m.rows = nil
				m.cursor = 0
			}
		}
	}

	if m.viewMode == DetailView {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.viewMode {
	case RunListView:
		m.runCursor = clamp(m.runCursor+delta, 0, len(m.runs)-1)
	case TreeView:
		m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	}
}

func (m *Model) loadSelectedRun() {
	if len(m.runs) == 0 {
		return
	}
	m.loadRun(m.runs[m.runCursor].RunID)
}

func (m *Model) loadRun(runID string) {
	run, err := m.store.LoadRun(runID)
	if err != nil {
		m.loadErr = err.Error()
		return
	}
	result, err := graph.ReconstructRun(run)
	if err != nil {
		m.loadErr = err.Error()
		return
	}

	m.loadErr = ""
	m.run = run
	m.result = result
	m.rows = buildRows(run.Roots, result)
	m.cursor = 0
	m.viewMode = TreeView
}

// buildRows flattens the forest into indented rows, pairing each event with
// its display node.
func buildRows(roots []*trace.Event, result *graph.Result) []treeRow {
	byID := make(map[string]*graph.DisplayNode, len(result.Nodes))
	for _, dn := range result.Nodes {
		byID[dn.EventID] = dn
	}

	var rows []treeRow
	var walk func(ev *trace.Event, depth int)
	walk = func(ev *trace.Event, depth int) {
		if dn, ok := byID[ev.EventID]; ok {
			rows = append(rows, treeRow{node: dn, depth: depth})
		}
		for _, child := range ev.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return rows
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch m.viewMode {
	case RunListView:
		body = m.runListView()
	case TreeView:
		body = m.treeView()
	case DetailView:
		body = BoxStyle.Render(m.viewport.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.helpView(),
	)
}

func (m Model) headerView() string {
	title := "gati · runs"
	if m.run != nil {
		title = fmt.Sprintf("gati · %s", m.run.Manifest.RunID)
	}
	return TitleStyle.Render(title)
}

func (m Model) runListView() string {
	var b strings.Builder
	for i, run := range m.runs {
		line := fmt.Sprintf("%-24s %-12s %4d events  %6.2fs", run.RunID, run.Status, run.EventCount, run.Duration)
		if run.AgentName != "" {
			line += "  " + MutedStyle.Render(run.AgentName)
		}
		if i == m.runCursor {
			b.WriteString(CursorStyle.Render("> ") + SelectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.loadErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.loadErr) + "\n")
	}
	return BoxStyle.Render(b.String())
}

func (m Model) treeView() string {
	var b strings.Builder
	for i, row := range m.rows {
		line := strings.Repeat("  ", row.depth) + m.rowLabel(row.node)
		if i == m.cursor {
			b.WriteString(CursorStyle.Render("> ") + SelectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.result.Warnings) > 0 {
		b.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("⚠ %d warnings", len(m.result.Warnings))) + "\n")
	}
	return BoxStyle.Render(b.String())
}

func (m Model) rowLabel(dn *graph.DisplayNode) string {
	label := EventStyle(dn.Event.EventType).Render(dn.DisplayName)
	if dn.SequenceIndex >= 0 {
		label = MutedStyle.Render(fmt.Sprintf("%d.", dn.SequenceIndex+1)) + " " + label
	}
	if dn.IsParallel {
		label += " " + WarningStyle.Render("∥")
	}
	if dn.Event.LatencyMs != nil {
		label += " " + DurationStyle.Render(fmt.Sprintf("%.0fms", *dn.Event.LatencyMs))
	}
	return label
}

func (m Model) detailContent() string {
	if m.cursor >= len(m.rows) {
		return ""
	}
	dn := m.rows[m.cursor].node
	ev := dn.Event

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", TitleStyle.Render(dn.DisplayName))
	fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("event_id:"), ev.EventID)
	fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("type:"), string(ev.EventType))
	fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("timestamp:"), ev.Timestamp.Format("15:04:05.000"))
	if ev.ParentEventID != "" {
		fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("parent:"), ev.ParentEventID)
	}
	if ev.PreviousEventID != "" {
		fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("previous:"), ev.PreviousEventID)
	}
	if dn.SequenceIndex >= 0 {
		fmt.Fprintf(&b, "%s %d\n", AttributeKeyStyle.Render("sequence:"), dn.SequenceIndex)
	}
	if dn.IsParallel {
		fmt.Fprintf(&b, "%s yes\n", AttributeKeyStyle.Render("parallel:"))
	}
	if ev.LatencyMs != nil {
		fmt.Fprintf(&b, "%s %s\n", AttributeKeyStyle.Render("latency:"), DurationStyle.Render(fmt.Sprintf("%.0fms", *ev.LatencyMs)))
	}
	if ev.TokensIn != nil || ev.TokensOut != nil {
		in, out := 0, 0
		if ev.TokensIn != nil {
			in = *ev.TokensIn
		}
		if ev.TokensOut != nil {
			out = *ev.TokensOut
		}
		fmt.Fprintf(&b, "%s %d in / %d out\n", AttributeKeyStyle.Render("tokens:"), in, out)
	}

	if len(ev.Data) > 0 {
		fmt.Fprintf(&b, "\n%s\n", AttributeKeyStyle.Render("payload:"))
		for _, key := range ev.Data.SortedKeys() {
			fmt.Fprintf(&b, "  %s = %v\n", AttributeKeyStyle.Render(key), ev.Data[key])
		}
	}
	return b.String()
}

func (m Model) helpView() string {
	keys := []string{
		HelpKeyStyle.Render("↑/↓") + " navigate",
		HelpKeyStyle.Render("enter") + " open",
		HelpKeyStyle.Render("esc") + " back",
		HelpKeyStyle.Render("q") + " quit",
	}
	return HelpStyle.Render(strings.Join(keys, "  "))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
