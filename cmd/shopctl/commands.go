package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/amountwords"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/database"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/importer"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// env is what a command needs once configuration has been loaded.
type env struct {
	cfg *config.Config
	log *logrus.Logger
	db  *sql.DB
}

// connect loads configuration and opens the database.
func connect(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	db, err := database.InitDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "shopctl",
		Short:        "Sinthiya Telecom back office tools",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMigrateCmd(), newSeedAdminCmd(), newWordsCmd(), newImportCmd())
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			if err := database.Migrate(cmd.Context(), e.db); err != nil {
				return err
			}
			e.log.Info("Schema is up to date")
			return nil
		},
	}
}

func newSeedAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin login, or reset its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			auth := services.NewAuthService(e.db, nil, e.cfg.JWT, e.cfg.Argon2, e.log)
			admin, err := auth.SeedAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			e.log.WithField("email", admin.Email).Info("Admin ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newWordsCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "words <amount>",
		Short: "Spell a taka amount the way memos print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("amount must be a whole number: %w", err)
			}
			if amount < 0 {
				return fmt.Errorf("amount must not be negative: %d", amount)
			}
			fmt.Fprintln(cmd.OutOrStdout(), amountwords.Taka(amount, lang))
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", amountwords.English, "Language: en or bn")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import pasted spreadsheet rows",
	}
	cmd.AddCommand(newImportCustomersCmd())
	return cmd
}

func newImportCustomersCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "customers <file>",
		Short: "Import name, number, address, due rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				drafts := importer.ParseCustomers(string(raw))
				if len(drafts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no customer rows found")
					return nil
				}
				return gocsv.Marshal(drafts, cmd.OutOrStdout())
			}

			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			loc := e.cfg.Shop.Location()
			now := func() time.Time { return time.Now().In(loc) }
			dates := dateutil.New(now)
			store := services.NewLedgerStore(e.db, ledger.NewEngine(dates), e.log)
			customers := services.NewCustomerService(e.db, store, dates, activity.NewLogger(e.db, e.log, now), e.log)

			report, err := customers.ImportCustomers(cmd.Context(), string(raw))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d, skipped %d\n", report.Added, report.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print parsed rows without touching the database")
	return cmd
}
