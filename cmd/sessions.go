package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	sessionsrender "github.com/bnema/rsessions/internal/adapters/render/sessions"
	"github.com/bnema/rsessions/internal/application"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/spf13/cobra"
)

const defaultIdleAfter = 24 * time.Hour

type sessionView struct {
	ID         string    `json:"id"`
	Scope      string    `json:"scope"`
	Owner      string    `json:"owner,omitempty"`
	Project    string    `json:"project"`
	WorkingDir string    `json:"working_dir"`
	Initial    bool      `json:"initial"`
	Shared     bool      `json:"shared"`
	Label      string    `json:"label,omitempty"`
	Editor     string    `json:"editor"`
	RVersion   string    `json:"r_version,omitempty"`
	Created    time.Time `json:"created"`
	LastUsed   time.Time `json:"last_used"`
	Running    bool      `json:"running"`
	PID        int       `json:"pid,omitempty"`
	Host       string    `json:"host,omitempty"`
}

func newCreateCmd(app *app) *cobra.Command {
	var project string
	var workingDir string
	var initial bool
	var label string
	var editor string
	var rVersion string
	var sharedProject bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new session and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			if workingDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				workingDir = wd
			}

			id, err := app.registry.Create(cmd.Context(), project, workingDir, initial,
				application.WithLabel(label),
				application.WithEditor(editor),
				application.WithRVersion(rVersion),
				application.WithShared(sharedProject),
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project path (empty for a non-project session)")
	cmd.Flags().StringVar(&workingDir, "dir", "", "Working directory (default: current directory)")
	cmd.Flags().BoolVar(&initial, "initial", true, "Mark as the initial session of the project (--initial=false for a secondary session)")
	cmd.Flags().StringVar(&label, "label", "", "Display label")
	cmd.Flags().StringVar(&editor, "editor", domain.DefaultEditor, "Front end that owns the session")
	cmd.Flags().StringVar(&rVersion, "r-version", "", "R version the session runs")
	cmd.Flags().BoolVar(&sharedProject, "shared", false, "Make the session visible to users with project sharing")

	return cmd
}

func newListCmd(app *app) *cobra.Command {
	var sharing bool
	var asJSON bool
	var idleAfter time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			sessions := app.registry.List(cmd.Context(), "", sharingEnabled(cmd, app, sharing))
			return writeSessionsOutput(cmd, app, sessions, sessionsrender.RenderOptions{IdleAfter: idleAfter}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&sharing, "sharing", false, "Include sessions other users shared (default: sessions.project_sharing)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().DurationVar(&idleAfter, "idle-after", defaultIdleAfter, "Flag sessions unused for longer than this")

	return cmd
}

func newCountCmd(app *app) *cobra.Command {
	var sharing bool

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of active sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			n := app.registry.Count(cmd.Context(), "", sharingEnabled(cmd, app, sharing))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}

	cmd.Flags().BoolVar(&sharing, "sharing", false, "Include sessions other users shared (default: sessions.project_sharing)")

	return cmd
}

func newGetCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			session, err := app.registry.Get(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return err
			}

			return writeSessionsOutput(cmd, app, []*application.ActiveSession{session}, sessionsrender.RenderOptions{IdleAfter: defaultIdleAfter}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newTouchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "touch <id>",
		Short: "Stamp a session as used now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(session *application.ActiveSession) error {
				return session.Touch(cmd.Context())
			})
		},
	}
}

func newLabelCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "label <id> <label>",
		Short: "Set the display label of a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(session *application.ActiveSession) error {
				return session.SetLabel(cmd.Context(), args[1])
			})
		},
	}
}

func newMarkRunningCmd(app *app) *cobra.Command {
	var pid int

	cmd := &cobra.Command{
		Use:   "mark-running <id>",
		Short: "Record the process now serving a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pid <= 0 {
				return fmt.Errorf("invalid pid %d", pid)
			}

			return withSession(cmd, app, args[0], func(session *application.ActiveSession) error {
				return session.MarkRunning(cmd.Context(), pid)
			})
		},
	}

	cmd.Flags().IntVar(&pid, "pid", 0, "Process id of the R session")
	_ = cmd.MarkFlagRequired("pid")

	return cmd
}

func newMarkStoppedCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-stopped <id>",
		Short: "Record that a session no longer has a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(session *application.ActiveSession) error {
				return session.MarkStopped(cmd.Context())
			})
		},
	}
}

func newRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove sessions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			for _, id := range args {
				if err := app.registry.Remove(cmd.Context(), domain.SessionID(id)); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func withSession(cmd *cobra.Command, app *app, id string, fn func(*application.ActiveSession) error) error {
	if err := app.ready(); err != nil {
		return err
	}

	session, err := app.registry.Get(cmd.Context(), domain.SessionID(id))
	if err != nil {
		return err
	}

	return fn(session)
}

func sharingEnabled(cmd *cobra.Command, app *app, flagValue bool) bool {
	if cmd.Flags().Changed("sharing") {
		return flagValue
	}

	return app.cfg.ProjectSharing
}

func writeSessionsOutput(cmd *cobra.Command, app *app, sessions []*application.ActiveSession, opts sessionsrender.RenderOptions, asJSON bool) error {
	if asJSON {
		views := make([]sessionView, 0, len(sessions))
		for _, session := range sessions {
			views = append(views, toSessionView(session))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	opts.Now = app.now()
	rendered, err := app.render(sessions, opts)
	if err != nil {
		return fmt.Errorf("render sessions: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func toSessionView(session *application.ActiveSession) sessionView {
	scope := session.Scope()
	return sessionView{
		ID:         session.ID().String(),
		Scope:      scope.Key,
		Owner:      scope.Home,
		Project:    session.Project(),
		WorkingDir: session.WorkingDirectory(),
		Initial:    session.Initial(),
		Shared:     session.Shared(),
		Label:      session.Label(),
		Editor:     session.Editor(),
		RVersion:   session.RVersion(),
		Created:    session.Created(),
		LastUsed:   session.LastUsed(),
		Running:    session.IsRunning(),
		PID:        session.PID(),
		Host:       session.Host(),
	}
}
