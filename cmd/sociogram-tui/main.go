package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmcrae/sociogram/pkg/analysis"
	"github.com/kmcrae/sociogram/pkg/graph"
	"github.com/kmcrae/sociogram/pkg/logging"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	nodesView
	communitiesView
	predictionsView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	dataset     string
	report      *analysis.Report
	currentView view
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
}

func initialModel(dataset string, report *analysis.Report) model {
	columns := []table.Column{
		{Title: "Node", Width: 20},
		{Title: "Community", Width: 16},
		{Title: "Degree", Width: 10},
	}

	rows := make([]table.Row, 0, len(report.Nodes))
	for _, name := range report.Nodes {
		rows = append(rows, table.Row{
			name,
			report.Communities[name],
			fmt.Sprintf("%.3f", report.DegreeCentrality[name]),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return model{
		dataset:     dataset,
		report:      report,
		currentView: overviewView,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
		}
	}

	if m.currentView == nodesView {
		m.nodeTable, cmd = m.nodeTable.Update(msg)
	}

	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Sociogram - " + m.dataset))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case nodesView:
		s.WriteString(m.renderNodes())
	case communitiesView:
		s.WriteString(m.renderCommunities())
	case predictionsView:
		s.WriteString(m.renderPredictions())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Overview", "Nodes", "Communities", "Predictions"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderOverview() string {
	metrics := m.report.Metrics

	statsContent := fmt.Sprintf(`Network
Nodes:           %d
Edges:           %d
Density:         %.4f
Avg degree:      %.2f
Avg path length: %.2f
Diameter:        %d
Modularity:      %.4f`,
		metrics.Nodes,
		metrics.Edges,
		metrics.Density,
		metrics.AvgDegree,
		metrics.AvgPathLength,
		metrics.Diameter,
		metrics.Modularity,
	)

	keyPlayers := fmt.Sprintf(`Key players
Most central:        %s
Highest betweenness: %s
Highest closeness:   %s

Communities: %d`,
		m.report.MostCentral,
		m.report.HighestBetweenness,
		m.report.HighestCloseness,
		m.report.CommunityCount,
	)

	statsBox := statsBoxStyle.Render(statsContent)
	playersBox := statsBoxStyle.Render(keyPlayers)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, playersBox),
	)
}

func (m model) renderNodes() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Node Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.nodeTable.View())

	return contentStyle.Render(s.String())
}

func (m model) renderCommunities() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Communities"))
	s.WriteString("\n\n")

	// Group members under their community label
	members := make(map[string][]string)
	for _, name := range m.report.Nodes {
		label := m.report.Communities[name]
		members[label] = append(members[label], name)
	}

	labels := make([]string, 0, len(members))
	for label := range members {
		labels = append(labels, label)
	}
	// Labels are "Community A", "Community B", ... so string order works
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if labels[j] < labels[i] {
				labels[i], labels[j] = labels[j], labels[i]
			}
		}
	}

	for _, label := range labels {
		s.WriteString(fmt.Sprintf("%s (%d members)\n", label, len(members[label])))
		s.WriteString("  " + strings.Join(members[label], ", ") + "\n\n")
	}

	return contentStyle.Render(s.String())
}

func (m model) renderPredictions() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Predicted Links"))
	s.WriteString("\n\n")

	if len(m.report.Predictions) == 0 {
		s.WriteString(helpStyle.Render("No missing links predicted for this network."))
		return contentStyle.Render(s.String())
	}

	for i, p := range m.report.Predictions {
		bar := strings.Repeat("#", int(p.Probability/5))
		s.WriteString(fmt.Sprintf("  %d. %s - %s  %5.1f%%  %s\n", i+1, p.Source, p.Target, p.Probability, bar))
	}

	return contentStyle.Render(s.String())
}

func main() {
	var (
		g       *graph.Graph
		dataset string
		err     error
	)

	if len(os.Args) > 1 {
		dataset = os.Args[1]
		g, err = graph.LoadCSVFile(dataset)
	} else {
		dataset = "demo"
		g, err = analysis.ExampleGraph()
	}
	if err != nil {
		log.Fatalf("Failed to load network: %v", err)
	}

	analyzer := analysis.NewAnalyzer(logging.NewNopLogger(), analysis.DefaultOptions())
	report, err := analyzer.Analyze(g)
	if err != nil {
		log.Fatalf("Failed to analyze network: %v", err)
	}

	p := tea.NewProgram(initialModel(dataset, report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
