package commands

import (
	"flag"
	"fmt"

	"google.golang.org/api/bigquery/v2"

	"github.com/bigfoot-data/bigfoot/schema"
)

var UpdateSchemaCmd = UpdateSchema{
	bqcommand: bqcommand{
		command: command{
			workdir: "",
			data:    "",
			debug:   false,
		},
	},
	nosnapshot: false,
	dryrun:     false,
}

// UpdateSchema replaces the schema of a BigQuery table with the local schema file, after first
// creating a snapshot of the table and saving the current schema as a backup file.
type UpdateSchema struct {
	bqcommand
	nosnapshot bool
	dryrun     bool
}

func (cmd *UpdateSchema) Name() string {
	return "update-schema"
}

func (cmd *UpdateSchema) Description() string {
	return "Updates the schema of a BigQuery table from a local schema file"
}

func (cmd *UpdateSchema) Usage() string {
	return "--project <project> --dataset <dataset> --table <table>"
}

func (cmd *UpdateSchema) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] update-schema [options] --dataset <dataset> --table <table>\n", APP)
	fmt.Println()
	fmt.Println("  Updates the schema of a BigQuery table from <data>/<dataset>__<table>.json. The table is")
	fmt.Println("  snapshotted and the existing schema is saved to <data>/<dataset>__<table>__backup.json first.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot update-schema --project analytics --dataset gradient --table orders`)
	fmt.Println(`    bigfoot update-schema --project analytics --dataset gradient --table orders --dryrun`)
	fmt.Println()
}

func (cmd *UpdateSchema) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("update-schema")

	flagset.BoolVar(&cmd.nosnapshot, "no-snapshot", cmd.nosnapshot, "Updates the table schema without creating a snapshot")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Reports the schema changes without updating the table")

	return flagset
}

func (cmd *UpdateSchema) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	id, err := cmd.validate(cfg)
	if err != nil {
		return err
	}

	updated, err := schema.Load(cfg.Data, id.dataset, id.table)
	if err != nil {
		return err
	}

	bq, err := warehouse(ctx, cfg)
	if err != nil {
		return err
	}

	table, err := bq.Tables.Get(id.project, id.dataset, id.table).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve table %v (%w)", id, err)
	}

	original := schema.FromTableSchema(table.Schema)

	if cmd.dryrun {
		report(original, updated)
		return nil
	}

	if !cmd.nosnapshot {
		snapshot, err := createSnapshot(ctx, bq, *id, cfg.BigQuery.SnapshotExpiry, cmd.debug)
		if err != nil {
			return err
		}

		infof("Created snapshot %v.%v.%v", id.project, id.dataset, snapshot)
	}

	backup, err := schema.Save(cfg.Data, id.dataset, id.table+"__backup", original)
	if err != nil {
		return fmt.Errorf("error saving backup schema (%w)", err)
	} else {
		infof("Saved current schema to %v", backup)
	}

	patch := bigquery.Table{
		Schema: schema.ToTableSchema(updated),
	}

	patched, err := bq.Tables.Patch(id.project, id.dataset, id.table, &patch).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to update schema for %v (%w)", id, err)
	}

	report(original, schema.FromTableSchema(patched.Schema))

	return nil
}

func report(original, updated []*schema.Field) {
	added, removed := schema.Diff(original, updated)

	for _, path := range added {
		infof("  added   %v", path)
	}

	for _, path := range removed {
		infof("  removed %v", path)
	}

	if schema.Leaves(updated) == schema.Leaves(original)+1 {
		infof("A new column has been added.")
	} else {
		infof("The column has not been added (columns: %v -> %v)", schema.Leaves(original), schema.Leaves(updated))
	}
}
