package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/repositories"
	"github.com/Matesfu/Mela-rent/internal/schema"
	"github.com/Matesfu/Mela-rent/internal/services"
)

type dbOpener func(dsn string) (*sql.DB, error)

// operator is the identity melactl acts with.
var operator = models.Caller{Role: models.RoleAdmin, Authenticated: true}

func newRootCmd(open dbOpener, out io.Writer) *cobra.Command {
	var dsn string
	rootCmd := &cobra.Command{
		Use:           "melactl",
		Short:         "Mela-rent admin tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "MySQL DSN")

	withDB := func(run func(cmd *cobra.Command, args []string, db *sql.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			db, err := open(dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			return run(cmd, args, db)
		}
	}

	rootCmd.AddCommand(
		migrateCmd(withDB),
		purgeCmd(withDB),
		setRoleCmd(withDB),
		paymentsCmd(withDB),
	)
	return rootCmd
}

type dbRunner func(run func(cmd *cobra.Command, args []string, db *sql.DB) error) func(*cobra.Command, []string) error

func migrateCmd(withDB dbRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, _ []string, db *sql.DB) error {
			if err := schema.Apply(cmd.Context(), db); err != nil {
				return fmt.Errorf("failed to apply schema: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		}),
	}
}

func purgeCmd(withDB dbRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <property-id>",
		Short: "Permanently delete a property with its favorites and payment logs",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, args []string, db *sql.DB) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc := &services.PropertyService{Repo: repositories.NewPropertyRepository(db)}
			if err := svc.PurgeProperty(cmd.Context(), operator, id); err != nil {
				return fmt.Errorf("purge property %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Property %d purged.\n", id)
			return nil
		}),
	}
}

func setRoleCmd(withDB dbRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <TENANT|OWNER|ADMIN>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: withDB(func(cmd *cobra.Command, args []string, db *sql.DB) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc := &services.UserService{UserRepo: repositories.NewUserRepository(db)}
			user, err := svc.SetRole(cmd.Context(), id, args[1])
			if err != nil {
				return fmt.Errorf("set role for user %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s (%d) is now %s.\n", user.Username, user.ID, user.Role)
			return nil
		}),
	}
}

func paymentsCmd(withDB dbRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "payments <property-id>",
		Short: "Print a property's payment history",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, args []string, db *sql.DB) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc := &services.PaymentService{Payments: repositories.NewPaymentRepository(db)}
			logs, err := svc.PropertyPayments(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No payments for property %d.\n", id)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tOWNER\tAMOUNT\tDATE\tSTATUS")
			for _, l := range logs {
				fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%s\n", l.ID, l.OwnerID, l.AmountPaid, l.PaymentDate.Format(time.RFC3339), l.Status)
			}
			return tw.Flush()
		}),
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
