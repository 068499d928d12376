package cmd

import (
	"context"
	"time"

	sessionsrender "github.com/bnema/rsessions/internal/adapters/render/sessions"
	"github.com/bnema/rsessions/internal/application"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/spf13/cobra"
)

func newGlobalCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Inspect sessions of every user under the storage root",
	}

	cmd.AddCommand(newGlobalListCmd(app), newGlobalGetCmd(app))

	return cmd
}

func newGlobalListCmd(app *app) *cobra.Command {
	var asJSON bool
	var idleAfter time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			var found []*application.GlobalActiveSession
			err := runScanSpinner(cmd.Context(), cmd.ErrOrStderr(), "Scanning session scopes...", func(ctx context.Context, report func(application.ScanProgress)) error {
				found = app.global.OnProgress(report).List(ctx)
				return nil
			})
			if err != nil {
				return err
			}

			return writeSessionsOutput(cmd, app, unwrapGlobal(found), sessionsrender.RenderOptions{
				Title:     "All Active R Sessions",
				IdleAfter: idleAfter,
				ShowOwner: true,
			}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().DurationVar(&idleAfter, "idle-after", defaultIdleAfter, "Flag sessions unused for longer than this")

	return cmd
}

func newGlobalGetCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Find a session in any user's scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ready(); err != nil {
				return err
			}

			var found *application.GlobalActiveSession
			err := runScanSpinner(cmd.Context(), cmd.ErrOrStderr(), "Searching session scopes...", func(ctx context.Context, report func(application.ScanProgress)) error {
				var err error
				found, err = app.global.OnProgress(report).Get(ctx, domain.SessionID(args[0]))
				return err
			})
			if err != nil {
				return err
			}

			return writeSessionsOutput(cmd, app, unwrapGlobal([]*application.GlobalActiveSession{found}), sessionsrender.RenderOptions{
				IdleAfter: defaultIdleAfter,
				ShowOwner: true,
			}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func unwrapGlobal(found []*application.GlobalActiveSession) []*application.ActiveSession {
	sessions := make([]*application.ActiveSession, 0, len(found))
	for _, session := range found {
		sessions = append(sessions, session.ActiveSession)
	}

	return sessions
}
