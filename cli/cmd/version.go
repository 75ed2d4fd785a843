package cmd

import (
	"fmt"

	"github.com/photoapp/photoapp/cli/internal/output"
	"github.com/spf13/cobra"
)

// Version is the CLI version, injected at build time:
//
//	go build -ldflags "-X github.com/photoapp/photoapp/cli/cmd.Version=1.2.3"
var Version = "dev"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := "unreachable"
			apiVersion := ""
			if resp, err := app.Client.Version(); err == nil {
				server = resp.Version
				apiVersion = resp.APIVersion
			}

			if app.JSON {
				output.JSON(app.Out, map[string]string{
					"cli":         Version,
					"server":      server,
					"api_version": apiVersion,
					"server_url":  app.Config.ServerURL,
				})
				return nil
			}
			fmt.Fprintf(app.Out, "photoapp CLI %s\n", Version)
			fmt.Fprintf(app.Out, "server %s at %s\n", server, app.Config.ServerURL)
			return nil
		},
	}
}
