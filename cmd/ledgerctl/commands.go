package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/backoffice/statement/config"
	"github.com/backoffice/statement/internal/application/usecase/history"
	"github.com/backoffice/statement/internal/domain/entity"
	"github.com/backoffice/statement/internal/infra/db"
	"github.com/backoffice/statement/internal/infra/dependency"
	"github.com/backoffice/statement/internal/integration/adapters"
	"github.com/backoffice/statement/internal/integration/entrypoint/dto"
)

var commands = []subcommands.Command{
	&showCmd{},
	&snapshotCmd{},
	&historyCmd{},
	&restoreCmd{},
	&refreshCmd{},
	&hashCredentialCmd{},
}

// withInjector opens the configured stores, runs fn and closes everything.
func withInjector(ctx context.Context, fn func(inj *dependency.Injector) error) subcommands.ExitStatus {
	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	inj, err := dependency.NewInjector(ctx, cfg, database)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer inj.Close()

	if err := fn(inj); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print the current statement" }
func (*showCmd) Usage() string {
	return `ledgerctl show

  Prints every line of the statement with its id and the computed totals.
`
}
func (*showCmd) SetFlags(*flag.FlagSet) {}

func (*showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withInjector(ctx, func(inj *dependency.Injector) error {
		output, err := inj.UseCases.GetStatement.Execute(ctx)
		if err != nil {
			return err
		}
		writeLines(os.Stdout, output.Lines)
		writeTotals(os.Stdout, output.Totals)
		if output.PendingEdit != nil {
			fmt.Fprintf(os.Stdout, "\npending %s edit on line %d, expires %s\n",
				output.PendingEdit.Field, output.PendingEdit.LineID, output.PendingEdit.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	})
}

type snapshotCmd struct{}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "save the current statement to history" }
func (*snapshotCmd) Usage() string {
	return `ledgerctl snapshot
`
}
func (*snapshotCmd) SetFlags(*flag.FlagSet) {}

func (*snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withInjector(ctx, func(inj *dependency.Injector) error {
		output, err := inj.UseCases.CaptureSnapshot.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %d\n", output.Message, output.Snapshot.ID)
		return nil
	})
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list saved snapshots, newest first" }
func (*historyCmd) Usage() string {
	return `ledgerctl history
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withInjector(ctx, func(inj *dependency.Injector) error {
		output, err := inj.UseCases.ListSnapshots.Execute(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "ID\tDate\tRevenue\tProfit\tMargin\t")
		for _, s := range output.Snapshots {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s%%\t\n",
				s.ID, s.Date.Format(time.DateTime), dto.FormatBRL(s.Totals.Revenue), dto.FormatBRL(s.Totals.Profit), s.Totals.Margin.StringFixed(2))
		}
		return w.Flush()
	})
}

type restoreCmd struct {
	id int64
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the live statement with a snapshot" }
func (*restoreCmd) Usage() string {
	return `ledgerctl restore -id <snapshot id>
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "The snapshot to restore.")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(os.Stderr, "restore: -id is required")
		return subcommands.ExitUsageError
	}
	return withInjector(ctx, func(inj *dependency.Injector) error {
		output, err := inj.UseCases.RestoreSnapshot.Execute(ctx, history.RestoreSnapshotInput{ID: c.id})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, output.Message)
		writeTotals(os.Stdout, output.Totals)
		return nil
	})
}

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "pull the external aggregates once" }
func (*refreshCmd) Usage() string {
	return `ledgerctl refresh
`
}
func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withInjector(ctx, func(inj *dependency.Injector) error {
		if inj.UseCases.RefreshAggregates == nil {
			return fmt.Errorf("refresh: the aggregate feed is disabled (FEED_ENABLED=false)")
		}
		output, err := inj.UseCases.RefreshAggregates.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, output.Message)
		fmt.Fprintf(os.Stdout, "fees %s, losses %s\n", dto.FormatBRL(output.FeeTotal), dto.FormatBRL(output.LossTotal))
		writeTotals(os.Stdout, output.Totals)
		return nil
	})
}

type hashCredentialCmd struct{}

func (*hashCredentialCmd) Name() string { return "hash-credential" }
func (*hashCredentialCmd) Synopsis() string {
	return "print the bcrypt hash of a gate credential for GATE_CREDENTIAL_HASH"
}
func (*hashCredentialCmd) Usage() string {
	return `ledgerctl hash-credential <credential>
`
}
func (*hashCredentialCmd) SetFlags(*flag.FlagSet) {}

func (*hashCredentialCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "hash-credential: exactly one credential is required")
		return subcommands.ExitUsageError
	}
	hash, err := adapters.NewCredentialService().HashCredential(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stdout, hash)
	return subcommands.ExitSuccess
}

func writeLines(out io.Writer, lines []entity.LineItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, line := range lines {
		if line.IsSpacer() {
			fmt.Fprintln(w, "\t\t")
			continue
		}
		value := dto.FormatBRL(line.Value)
		if line.IsFooter() {
			value += " (" + line.Percentage.StringFixed(2) + "%)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", strconv.Itoa(line.ID), line.Description, value)
	}
	_ = w.Flush()
}

func writeTotals(out io.Writer, totals entity.StatementTotals) {
	fmt.Fprintf(out, "\nrevenue %s | closing %s | reserve %s | profit %s (%s%%)\n",
		dto.FormatBRL(totals.Revenue),
		dto.FormatBRL(totals.Closing),
		dto.FormatBRL(totals.Reserve),
		dto.FormatBRL(totals.Profit),
		totals.Margin.StringFixed(2),
	)
}
