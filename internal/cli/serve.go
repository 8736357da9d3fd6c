package cli

import (
	"context"
	"fmt"

	"admindash/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(_ *App) *cobra.Command {
	var (
		addr   string
		dbPath string
		seed   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development REST backend",
		Long: "Serves the /users, /tasks and /inventory collections the dashboard " +
			"talks to. Data lives in memory unless --db points at a sqlite file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st server.Store
			if dbPath != "" {
				s, err := server.OpenSQLite(dbPath)
				if err != nil {
					return err
				}
				st = s
			} else {
				st = server.NewMemStore()
			}
			defer st.Close()

			if seed {
				if err := server.Seed(context.Background(), st); err != nil {
					return fmt.Errorf("seed demo data: %w", err)
				}
			}

			e := server.New(st)
			fmt.Fprintf(cmd.OutOrStdout(), "admindash backend listening on %s\n", addr)
			return e.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3001", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", envOr("ADMINDASH_DB", ""), "Path to a sqlite file for persistent data")
	cmd.Flags().BoolVar(&seed, "seed", true, "Load demo data into empty collections on startup")

	return cmd
}
