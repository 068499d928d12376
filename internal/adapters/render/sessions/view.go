package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/rsessions/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const defaultTitle = "Active R Sessions"

type RenderOptions struct {
	Title     string
	Now       time.Time
	IdleAfter time.Duration
	// ShowOwner adds the owning home of each session, for cross-user views.
	ShowOwner bool
}

func renderView(sessions []*application.ActiveSession, opts RenderOptions, s styles) string {
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	running := 0
	for _, session := range sessions {
		if session.IsRunning() {
			running++
		}
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("sessions: %d  running: %d", len(sessions), running)),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render("No active sessions."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, session := range sessions {
		lines = append(lines, s.section.Render(renderSession(session, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(session *application.ActiveSession, opts RenderOptions, s styles) string {
	heading := s.session.Render(sessionTitle(session))
	if label := strings.TrimSpace(session.Label()); label != "" {
		heading = lipgloss.JoinHorizontal(lipgloss.Top, heading, " ", s.label.Render(label))
	}

	parts := []string{
		heading,
		s.detail.Render("dir: " + session.WorkingDirectory()),
		s.detail.Render(frontEndLine(session)),
	}

	if opts.ShowOwner {
		parts = append(parts, s.detail.Render("owner: "+ownerLabel(session)))
	}

	parts = append(parts, stateLine(session, opts, s))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sessionTitle(session *application.ActiveSession) string {
	project := strings.TrimSpace(session.Project())
	if project == "" {
		project = "(no project)"
	}

	title := fmt.Sprintf("%s [%s]", project, session.ID())
	if session.Shared() {
		title += " shared"
	}

	return title
}

func frontEndLine(session *application.ActiveSession) string {
	editor := session.Editor()
	if editor == "" {
		editor = "unknown editor"
	}
	if version := strings.TrimSpace(session.RVersion()); version != "" {
		return fmt.Sprintf("%s, R %s", editor, version)
	}

	return editor
}

func ownerLabel(session *application.ActiveSession) string {
	scope := session.Scope()
	if scope.Home != "" {
		return scope.Home
	}

	return scope.Key
}

func stateLine(session *application.ActiveSession, opts RenderOptions, s styles) string {
	var state string
	if session.IsRunning() {
		state = s.running.Render(runningLabel(session))
	} else {
		state = s.stopped.Render("stopped")
	}

	usedStyle := lipgloss.NewStyle().Foreground(ageColor(session.LastUsed(), opts.Now, opts.IdleAfter))
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		state,
		" ",
		usedStyle.Render(formatLastUsed(session.LastUsed(), opts.Now)),
	)

	if isIdle(session.LastUsed(), opts) {
		line += " " + s.warning.Render("[idle]")
	}

	return line
}

func runningLabel(session *application.ActiveSession) string {
	switch {
	case session.PID() > 0 && session.Host() != "":
		return fmt.Sprintf("running (pid %d on %s)", session.PID(), session.Host())
	case session.PID() > 0:
		return fmt.Sprintf("running (pid %d)", session.PID())
	default:
		return "running"
	}
}

func isIdle(lastUsed time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || opts.IdleAfter <= 0 || lastUsed.IsZero() {
		return false
	}

	return opts.Now.Sub(lastUsed) > opts.IdleAfter
}

func formatLastUsed(lastUsed, now time.Time) string {
	if lastUsed.IsZero() {
		return "never used"
	}
	if now.IsZero() {
		return "last used " + lastUsed.UTC().Format(time.RFC3339)
	}

	age := now.Sub(lastUsed)
	switch {
	case age < time.Minute:
		return "last used just now"
	case age < time.Hour:
		return "last used " + plural(int(age.Minutes()), "minute") + " ago"
	case age < 24*time.Hour:
		return "last used " + plural(int(age.Hours()), "hour") + " ago"
	default:
		return fmt.Sprintf("last used %s ago (%s)", plural(int(age.Hours()/24), "day"), lastUsed.Format("02 Jan"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// ageColor fades from bright white for fresh sessions to grey once the idle
// threshold is reached.
func ageColor(lastUsed, now time.Time, idleAfter time.Duration) lipgloss.Color {
	if now.IsZero() || lastUsed.IsZero() || idleAfter <= 0 {
		return lipgloss.Color("255")
	}

	age := now.Sub(lastUsed)
	return interpolateColor(idleAfter.Seconds()-age.Seconds(), 0, idleAfter.Seconds())
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp: 240 is faded, 255 is bright white.
	baseColor := 240.0
	targetColor := 255.0

	return lipgloss.Color(fmt.Sprintf("%d", int(baseColor+(targetColor-baseColor)*normalized)))
}
