package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/rsessions/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanDoneMsg struct {
	err error
}

type scanProgressMsg application.ScanProgress

type scanSpinnerModel struct {
	spinner  spinner.Model
	label    string
	scan     tea.Cmd
	progress application.ScanProgress
	counts   lipgloss.Style
	err      error
	done     bool
}

func newScanSpinnerModel(label string, scan tea.Cmd) scanSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
	)

	return scanSpinnerModel{
		spinner: s,
		label:   label,
		scan:    scan,
		counts:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (m scanSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan)
}

func (m scanSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case scanProgressMsg:
		m.progress = application.ScanProgress(msg)
		return m, nil
	case scanDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m scanSpinnerModel) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	if m.progress.Scopes > 0 {
		line += " " + m.counts.Render(fmt.Sprintf("%d/%d scopes, %s found",
			m.progress.Scanned, m.progress.Scopes, plural(m.progress.Sessions, "session")))
	}

	return line
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// runScanSpinner shows label and the scopes visited so far on output while
// scan walks the storage root.
func runScanSpinner(ctx context.Context, output io.Writer, label string, scan func(context.Context, func(application.ScanProgress)) error) error {
	var p *tea.Program
	report := func(progress application.ScanProgress) {
		p.Send(scanProgressMsg(progress))
	}
	scanCmd := func() tea.Msg {
		return scanDoneMsg{err: scan(ctx, report)}
	}

	p = tea.NewProgram(
		newScanSpinnerModel(label, scanCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(scanSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
