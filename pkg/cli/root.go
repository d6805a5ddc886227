// Package cli implements the apexcrm admin command-line tool. It operates on
// the database directly: inviting users, listing accounts, and running the
// registry reconciliation on demand.
package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"apexcrm/internal/config"
	internaldb "apexcrm/internal/db"
	"apexcrm/internal/db/repository"
	"apexcrm/internal/domain"
	"apexcrm/internal/service/directory"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "apexcrm",
		Short:         "ApexCRM admin tool",
		Long:          "Administrative operations against the ApexCRM database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("DB_PATH"); v != "" {
					dbPath = v
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "apexcrm.sqlite", "Path to the SQLite database")

	rootCmd.AddCommand(newInviteCmd(&dbPath))
	rootCmd.AddCommand(newUsersCmd(&dbPath))
	rootCmd.AddCommand(newReconcileCmd(&dbPath))
	rootCmd.AddCommand(newMigrateCmd(&dbPath))
	return rootCmd
}

// openDB opens a single write pool and applies pending migrations. CLI
// commands run one at a time, so there is no read pool to manage.
func openDB(path string) (*sql.DB, error) {
	db, err := internaldb.OpenSQLite(path, "write", 0)
	if err != nil {
		return nil, err
	}
	if err := internaldb.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newInviteCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <email> <role>",
		Short: "Pre-register an email to a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseAssignableRole(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			invites := repository.NewInvitationRepo(db, db)
			if err := invites.Put(cmd.Context(), &domain.Invitation{Email: args[0], Role: role}); err != nil {
				return err
			}
			fmt.Printf("invited %s as %s\n", args[0], role)
			return nil
		},
	}
}

func newUsersCmd(dbPath *string) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Account record operations",
	}
	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List account records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			users := repository.NewUserRepo(db, db)
			var pageToken string
			for {
				page := domain.PageRequest{MaxResults: domain.MaxMaxResults, PageToken: pageToken}
				list, total, err := users.List(cmd.Context(), page)
				if err != nil {
					return err
				}
				for _, u := range list {
					status := "active"
					if u.Disabled {
						status = "restricted"
					}
					fmt.Printf("%-36s  %-30s  %-10s  %s\n", u.ID, u.Email, u.Role, status)
				}
				pageToken = domain.NextPageToken(page.Offset(), page.Limit(), total)
				if pageToken == "" {
					return nil
				}
			}
		},
	})
	return usersCmd
}

func newReconcileCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Mirror role registry entries onto account records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			reconciler := directory.NewReconciler(
				repository.NewUserRepo(db, db),
				repository.NewInvitationRepo(db, db),
				logger,
			)
			return reconciler.Run(cmd.Context())
		},
	}
}

func newMigrateCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Println("migrations applied")
			return nil
		},
	}
}
