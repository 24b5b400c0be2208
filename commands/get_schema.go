package commands

import (
	"flag"
	"fmt"

	"github.com/bigfoot-data/bigfoot/schema"
)

var GetSchemaCmd = GetSchema{
	bqcommand: bqcommand{
		command: command{
			workdir: "",
			data:    "",
			debug:   false,
		},
	},
}

type GetSchema struct {
	bqcommand
}

func (cmd *GetSchema) Name() string {
	return "get-schema"
}

func (cmd *GetSchema) Description() string {
	return "Retrieves the schema of a BigQuery table and stores it to a local file"
}

func (cmd *GetSchema) Usage() string {
	return "--project <project> --dataset <dataset> --table <table>"
}

func (cmd *GetSchema) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get-schema [options] --dataset <dataset> --table <table>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the schema of a BigQuery table and stores it to <data>/<dataset>__<table>.json")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot get-schema --project analytics --dataset gradient --table orders`)
	fmt.Println()
}

func (cmd *GetSchema) FlagSet() *flag.FlagSet {
	return cmd.flagset("get-schema")
}

func (cmd *GetSchema) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	id, err := cmd.validate(cfg)
	if err != nil {
		return err
	}

	infof("Pulling schema from %v", id)

	bq, err := warehouse(ctx, cfg)
	if err != nil {
		return err
	}

	table, err := bq.Tables.Get(id.project, id.dataset, id.table).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve table %v (%w)", id, err)
	}

	fields := schema.FromTableSchema(table.Schema)

	file, err := schema.Save(cfg.Data, id.dataset, id.table, fields)
	if err != nil {
		return fmt.Errorf("error saving schema (%w)", err)
	}

	infof("Retrieved %v columns to %v", schema.Leaves(fields), file)

	return nil
}
