package cli

import (
	"os"
	"strings"

	"admindash/internal/api"
	"admindash/internal/session"
	"admindash/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIBase string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "admindash",
		Short:        "Terminal admin dashboard (users, tasks, inventory)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard against the default backend
  admindash

  # Point at a different backend
  admindash --api http://localhost:4000

  # Run the bundled development backend
  admindash serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIBase, "api", envOr("ADMINDASH_API", api.DefaultBaseURL), "Base URL of the REST backend")

	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client := api.New(app.APIBase)
	return tui.Run(client, session.New())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
