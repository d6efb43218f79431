package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/probonopd/qwlroots/iface"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

type interactiveModel struct {
	err      error
	renderer string
	output   string
	types    []iface.TypeInfo
	table    table.Model
	state    modelState
}

type modelState int

const (
	stateBrowse modelState = iota
	stateShowDemo
)

type demoResultMsg struct {
	err    error
	output string
}

func newInteractiveModel(renderer string) *interactiveModel {
	columns := []table.Column{
		{Title: "Type", Width: 20},
		{Title: "Handle", Width: 14},
		{Title: "Slots", Width: 6},
		{Title: "Plans", Width: 6},
		{Title: "Live", Width: 5},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#666666")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	m := &interactiveModel{
		renderer: renderer,
		table:    t,
		state:    stateBrowse,
	}
	m.refresh()
	return m
}

func (m *interactiveModel) refresh() {
	m.types = iface.Catalog()
	rows := make([]table.Row, 0, len(m.types))
	for _, t := range m.types {
		rows = append(rows, table.Row{
			t.Name,
			t.Handle,
			strconv.Itoa(len(t.Slots)),
			strconv.Itoa(len(t.Plans)),
			strconv.Itoa(t.Live),
		})
	}
	m.table.SetRows(rows)
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			iface.DestroyAll()
			return m, tea.Quit

		case "r":
			m.refresh()
			return m, nil

		case "d":
			if m.state == stateBrowse {
				return m, m.runDemo
			}

		case "enter", "esc":
			if m.state == stateShowDemo {
				m.state = stateBrowse
				m.output = ""
				m.err = nil
				return m, nil
			}
		}

	case demoResultMsg:
		m.output = msg.output
		m.err = msg.err
		m.state = stateShowDemo
		m.refresh()
		return m, nil
	}

	if m.state == stateBrowse {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) runDemo() tea.Msg {
	var b strings.Builder
	err := runDemo(&b, m.renderer)
	return demoResultMsg{output: b.String(), err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("qwlroots inspector"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render("renderer " + displayName(m.renderer)))
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if i := m.table.Cursor(); i >= 0 && i < len(m.types) {
			b.WriteString(paneStyle.Render(m.formatType(m.types[i])))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • d run demo • r refresh • q quit"))

	case stateShowDemo:
		b.WriteString("Lifecycle demo:\n\n")
		if m.output != "" {
			b.WriteString(resultStyle.Render(strings.TrimRight(m.output, "\n")))
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatType(t iface.TypeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s.%s\n", typeStyle.Render(t.Handle), typeStyle.Render(t.Impl), t.ImplField)
	if t.Init != "" {
		fmt.Fprintf(&b, "init %s", t.Init)
		if t.Finish != "" {
			fmt.Fprintf(&b, ", finish %s", t.Finish)
		}
		b.WriteString("\n")
	}
	for _, s := range t.Slots {
		name := slotStyle.Render(s.Name)
		if s.Destroy {
			name += " (destroy)"
		}
		fmt.Fprintf(&b, "  %s %s\n", name, helpStyle.Render(s.Signature))
	}
	for _, p := range t.Plans {
		var ops []string
		for _, op := range p.Ops {
			ops = append(ops, op.Name+"="+op.Binding.String())
		}
		fmt.Fprintf(&b, "plan %s: %s\n", typeStyle.Render(p.Capability), strings.Join(ops, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func runInteractive(renderer string) error {
	p := tea.NewProgram(newInteractiveModel(renderer), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
