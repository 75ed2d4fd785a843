package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every user, photo, like and comment on the server",
		Long: `Reset empties the web service (when it runs with SERVER_ALLOW_RESET)
and forgets every local session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Reset(); err != nil {
				return fmt.Errorf("resetting server: %w", err)
			}
			if err := app.Sessions.ClearAll(); err != nil {
				return fmt.Errorf("clearing sessions: %w", err)
			}
			fmt.Fprintln(app.Out, "Server reset, sessions cleared.")
			return nil
		},
	}
}
