package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mutools/mubundle/depgraph"
	"github.com/mutools/mubundle/emit"
	"github.com/mutools/mubundle/manifest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	libStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	versionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectLibrary modelState = iota
	stateShowDetail
	statePreview
)

type interactiveModel struct {
	err          error
	manifestPath string
	bundle       *manifest.Bundle
	graph        *depgraph.Graph
	conflicts    []depgraph.Conflict
	order        []string
	preview      viewport.Model
	selected     int
	state        modelState
	width        int
	height       int
}

func newInteractiveModel(manifestPath string) *interactiveModel {
	return &interactiveModel{
		manifestPath: manifestPath,
		state:        stateSelectLibrary,
		preview:      viewport.New(80, 24),
	}
}

type loadedMsg struct {
	err       error
	bundle    *manifest.Bundle
	graph     *depgraph.Graph
	conflicts []depgraph.Conflict
	order     []string
}

type previewMsg struct {
	err  error
	text string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadBundle
}

func (m *interactiveModel) loadBundle() tea.Msg {
	b, err := manifest.Load(m.manifestPath)
	if err != nil {
		return loadedMsg{err: err}
	}

	g, err := depgraph.Build(b.Root)
	if err != nil {
		return loadedMsg{err: err}
	}

	out, err := emit.Compose(g, b.Options)
	if err != nil {
		return loadedMsg{err: err}
	}

	return loadedMsg{
		bundle:    b,
		graph:     g,
		conflicts: out.Conflicts,
		order:     out.Order,
	}
}

func (m *interactiveModel) composePreview() tea.Msg {
	out, err := emit.Compose(m.graph, m.bundle.Options)
	if err != nil {
		return previewMsg{err: err}
	}
	return previewMsg{text: out.Text}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = msg.Width
		m.preview.Height = msg.Height - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectLibrary && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectLibrary && m.selected < len(m.order)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectLibrary && len(m.order) > 0 {
				m.state = stateShowDetail
			}

		case "p":
			if m.state == stateSelectLibrary {
				m.state = statePreview
				return m, m.composePreview
			}

		case "esc":
			if m.state != stateSelectLibrary {
				m.state = stateSelectLibrary
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.bundle = msg.bundle
		m.graph = msg.graph
		m.conflicts = msg.conflicts
		m.order = msg.order

	case previewMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.preview.SetContent(msg.text)
		m.preview.GotoTop()
	}

	if m.state == statePreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return conflictStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.graph == nil {
		return "Loading bundle..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mubundle"))
	b.WriteString(" ")
	b.WriteString(m.manifestPath)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectLibrary:
		b.WriteString("Emission order (dependencies first):\n\n")
		for i, name := range m.order {
			line := m.formatLibrary(name)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.conflicts) > 0 {
			b.WriteString("\n")
			b.WriteString(conflictStyle.Render(fmt.Sprintf("%d version conflict(s)", len(m.conflicts))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter details • p preview output • q quit"))

	case stateShowDetail:
		b.WriteString(m.detailView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))

	case statePreview:
		b.WriteString(m.preview.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatLibrary(name string) string {
	d, ok := m.graph.Lookup(name)
	if !ok {
		return name
	}
	line := libStyle.Render(name) + " " + versionStyle.Render(d.Version.String())
	if name == m.graph.Root().Name {
		line += " (root)"
	}
	if _, conflicted := depgraph.ConflictFor(m.conflicts, name); conflicted {
		line += " " + conflictStyle.Render("!")
	}
	return line
}

func (m *interactiveModel) detailView() string {
	name := m.order[m.selected]
	d, ok := m.graph.Lookup(name)
	if !ok {
		return "library not found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", libStyle.Render(d.Name), versionStyle.Render(d.Version.String()))
	fmt.Fprintf(&b, "Header guard:  %s\n", d.HeaderGuard())
	fmt.Fprintf(&b, "Impl guard:    %s\n", d.ImplGuard())
	fmt.Fprintf(&b, "Header region: %d bytes\n", len(d.Header))
	fmt.Fprintf(&b, "Impl region:   %d bytes\n", len(d.Impl))

	if len(d.Dependencies) > 0 {
		b.WriteString("\nDepends on:\n")
		for _, dep := range d.Dependencies {
			fmt.Fprintf(&b, "  %s %s\n", dep.Name, dep.Version.String())
		}
	}

	reqs := m.graph.Requests(name)
	if len(reqs) > 1 {
		b.WriteString("\nRequested by:\n")
		for _, req := range reqs {
			by := req.RequestedBy
			if by == "" {
				by = "(root)"
			}
			fmt.Fprintf(&b, "  %s at %s\n", by, req.Version.String())
		}
	}

	if c, ok := depgraph.ConflictFor(m.conflicts, name); ok {
		b.WriteString("\n")
		b.WriteString(conflictStyle.Render(fmt.Sprintf(
			"Version conflict: composed at %s, requested %s",
			c.Selected.String(), strings.Join(c.VersionStrings(), ", "))))
		b.WriteString("\n")
	}

	return b.String()
}

func runInteractive(manifestPath string) error {
	p := tea.NewProgram(newInteractiveModel(manifestPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
