package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/photoapp/photoapp/cli/internal/api"
	"github.com/photoapp/photoapp/cli/internal/config"
	"github.com/photoapp/photoapp/cli/internal/session"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// App carries everything a command needs. It is built once per run in the
// root command's PersistentPreRunE.
type App struct {
	FS     afero.Fs
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// SessionsPath overrides session.DefaultPath when set.
	SessionsPath string

	JSON       bool
	ServerURL  string
	ConfigPath string

	Config   *config.Config
	Sessions *session.Store
	Client   *api.Client

	stdin *bufio.Reader
}

// NewApp returns an App wired to the real terminal and filesystem.
func NewApp() *App {
	return &App{
		FS:     afero.NewOsFs(),
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

func (a *App) setup() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.ServerURL != "" {
		url, err := config.NormalizeURL(a.ServerURL)
		if err != nil {
			return err
		}
		cfg.ServerURL = url
	}
	a.Config = cfg

	path := a.SessionsPath
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return fmt.Errorf("locating sessions file: %w", err)
		}
	}
	if a.Sessions, err = session.Open(a.FS, path); err != nil {
		return err
	}

	a.Client = api.NewClient(cfg.ServerURL, "")
	return nil
}

// authedClient returns a client for the active session. Commands that act
// on behalf of a user fail without one.
func (a *App) authedClient() (*api.Client, string, error) {
	username, token, ok := a.Sessions.Active()
	if !ok {
		return nil, "", errors.New("no active session, run \"photoapp login\" first")
	}
	return a.Client.WithToken(token), username, nil
}

// readClient uses the active session when there is one and otherwise falls
// back to anonymous access, saying so on stderr.
func (a *App) readClient() *api.Client {
	if _, token, ok := a.Sessions.Active(); ok {
		return a.Client.WithToken(token)
	}
	fmt.Fprintln(a.ErrOut, "no active session, showing public data only")
	return a.Client
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.ErrOut, prompt)
	if a.stdin == nil {
		a.stdin = bufio.NewReader(a.In)
	}
	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads without echo when stdin is a terminal.
func (a *App) readPassword(prompt string) (string, error) {
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.ErrOut, prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.ErrOut)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.readLine(prompt)
}

func parseAssetID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid asset id %q", arg)
	}
	return id, nil
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "photoapp",
		Short: "photoapp CLI, share photos from the terminal",
		Long: `photoapp talks to a photoapp web service to upload, download,
like and comment on photos.

Get started:
  photoapp adduser alice --email alice@example.com --first Alice --last Smith
  photoapp login alice
  photoapp upload cat.jpg --public
  photoapp assets`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.ErrOut)
	root.SetIn(app.In)

	flags := root.PersistentFlags()
	flags.BoolVar(&app.JSON, "json", false, "Output as JSON")
	flags.StringVar(&app.ServerURL, "server", "", "Override web service URL (default: from config or "+config.DefaultURL+")")
	flags.StringVar(&app.ConfigPath, "config", "", "Path to "+config.FileName)

	root.AddCommand(
		newUsersCmd(app),
		newAddUserCmd(app),
		newLoginCmd(app),
		newSessionsCmd(app),
		newLogoutCmd(app),
		newAssetsCmd(app),
		newUploadCmd(app),
		newDownloadCmd(app),
		newLikeCmd(app),
		newLikesCmd(app),
		newCommentCmd(app),
		newCommentsCmd(app),
		newResetCmd(app),
		newVersionCmd(app),
	)
	return root
}

// Execute runs the CLI against the real terminal.
func Execute() error {
	app := NewApp()
	if err := NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(app.ErrOut, "Error:", err)
		return err
	}
	return nil
}
