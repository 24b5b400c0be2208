package commands

import (
	"flag"
	"fmt"
)

var CreateSnapshotCmd = CreateSnapshot{
	bqcommand: bqcommand{
		command: command{
			workdir: "",
			data:    "",
			debug:   false,
		},
	},
	expiry: 0,
}

type CreateSnapshot struct {
	bqcommand
	expiry uint
}

func (cmd *CreateSnapshot) Name() string {
	return "create-snapshot"
}

func (cmd *CreateSnapshot) Description() string {
	return "Creates an expiring snapshot of a BigQuery table"
}

func (cmd *CreateSnapshot) Usage() string {
	return "--project <project> --dataset <dataset> --table <table>"
}

func (cmd *CreateSnapshot) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] create-snapshot [options] --dataset <dataset> --table <table>\n", APP)
	fmt.Println()
	fmt.Println("  Creates a snapshot <table>_backup_<timestamp> of a BigQuery table. The snapshot expires after")
	fmt.Println("  the configured 'bigquery.snapshot-expiry' days (7 by default).")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot create-snapshot --project analytics --dataset gradient --table orders --expiry 30`)
	fmt.Println()
}

func (cmd *CreateSnapshot) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("create-snapshot")

	flagset.UintVar(&cmd.expiry, "expiry", cmd.expiry, "Snapshot expiry (days). Defaults to the configured 'bigquery.snapshot-expiry'")

	return flagset
}

func (cmd *CreateSnapshot) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	id, err := cmd.validate(cfg)
	if err != nil {
		return err
	}

	expiry := cfg.BigQuery.SnapshotExpiry
	if cmd.expiry > 0 {
		expiry = cmd.expiry
	}

	bq, err := warehouse(ctx, cfg)
	if err != nil {
		return err
	}

	snapshot, err := createSnapshot(ctx, bq, *id, expiry, cmd.debug)
	if err != nil {
		return err
	}

	infof("Created snapshot %v.%v.%v", id.project, id.dataset, snapshot)

	return nil
}
