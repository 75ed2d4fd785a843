package cmd

import (
	"errors"
	"fmt"

	"github.com/photoapp/photoapp/cli/internal/api"
	"github.com/photoapp/photoapp/cli/internal/output"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Client.Users()
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}
			if app.JSON {
				output.JSON(app.Out, users)
				return nil
			}
			output.UserTable(app.Out, users)
			return nil
		},
	}
}

func newAddUserCmd(app *App) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "adduser <username>",
		Short: "Register a new user",
		Long: `Register a new user on the web service. The password is prompted for
unless --password is given.

  photoapp adduser alice --email alice@example.com --first Alice --last Smith`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = args[0]
			if req.Password == "" {
				pw, err := app.readPassword("Password: ")
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				req.Password = pw
			}

			id, err := app.Client.Register(req)
			if err != nil {
				return fmt.Errorf("registering %s: %w", req.Username, err)
			}
			if app.JSON {
				output.JSON(app.Out, map[string]interface{}{"userid": id, "username": req.Username})
				return nil
			}
			fmt.Fprintf(app.Out, "Registered %s (userid %d)\n", req.Username, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.FirstName, "first", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last", "", "Last name")
	cmd.Flags().StringVar(&req.BucketFolder, "folder", "", "Bucket folder (generated when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and make that user the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				pw, err := app.readPassword("Password: ")
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = pw
			}

			resp, err := app.Client.Login(username, password)
			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) && apiErr.Status == 401 {
					return errors.New("login failed, check username and password")
				}
				return fmt.Errorf("logging in: %w", err)
			}

			if err := app.Sessions.Activate(username, resp.AccessToken); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(app.Out, "Logged in as %s (userid %d)\n", username, resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List logged-in users, the active one marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := app.Sessions.List()
			if app.JSON {
				names := make([]map[string]interface{}, 0, len(sessions))
				for _, s := range sessions {
					names = append(names, map[string]interface{}{"username": s.Username, "active": s.Active})
				}
				output.JSON(app.Out, names)
				return nil
			}
			output.SessionTable(app.Out, sessions)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "use <username>",
		Short: "Switch the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Use(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Active session: %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget every stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.ClearAll(); err != nil {
				return fmt.Errorf("clearing sessions: %w", err)
			}
			fmt.Fprintln(app.Out, "Logged out.")
			return nil
		},
	}
}
