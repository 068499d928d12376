package sessions

import (
	"cmp"
	"errors"
	"io"
	"slices"

	"github.com/bnema/rsessions/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	sessions []*application.ActiveSession
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(sessions []*application.ActiveSession, opts RenderOptions) model {
	return model{
		sessions: orderSessions(sessions),
		opts:     opts,
		styles:   newStyles(),
	}
}

// orderSessions lists running sessions first, then the most recently used.
// Ties fall back to the id so output is stable across calls.
func orderSessions(sessions []*application.ActiveSession) []*application.ActiveSession {
	ordered := slices.Clone(sessions)
	slices.SortStableFunc(ordered, func(a, b *application.ActiveSession) int {
		if ar, br := a.IsRunning(), b.IsRunning(); ar != br {
			if ar {
				return -1
			}
			return 1
		}
		if c := b.LastUsed().Compare(a.LastUsed()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	return ordered
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.sessions, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render lays out sessions the way the session switcher lists them.
func Render(sessions []*application.ActiveSession, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(sessions, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
