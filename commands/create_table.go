package commands

import (
	"flag"
	"fmt"

	"google.golang.org/api/bigquery/v2"

	"github.com/bigfoot-data/bigfoot/schema"
)

var CreateTableCmd = CreateTable{
	bqcommand: bqcommand{
		command: command{
			workdir: "",
			data:    "",
			debug:   false,
		},
	},
}

type CreateTable struct {
	bqcommand
}

func (cmd *CreateTable) Name() string {
	return "create-table"
}

func (cmd *CreateTable) Description() string {
	return "Creates a BigQuery table from a local schema file"
}

func (cmd *CreateTable) Usage() string {
	return "--project <project> --dataset <dataset> --table <table>"
}

func (cmd *CreateTable) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] create-table [options] --dataset <dataset> --table <table>\n", APP)
	fmt.Println()
	fmt.Println("  Creates a BigQuery table with the schema in <data>/<dataset>__<table>.json")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot create-table --project analytics --dataset gradient --table orders`)
	fmt.Println()
}

func (cmd *CreateTable) FlagSet() *flag.FlagSet {
	return cmd.flagset("create-table")
}

func (cmd *CreateTable) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	id, err := cmd.validate(cfg)
	if err != nil {
		return err
	}

	fields, err := schema.Load(cfg.Data, id.dataset, id.table)
	if err != nil {
		return err
	}

	bq, err := warehouse(ctx, cfg)
	if err != nil {
		return err
	}

	table := bigquery.Table{
		TableReference: &bigquery.TableReference{
			ProjectId: id.project,
			DatasetId: id.dataset,
			TableId:   id.table,
		},
		Schema: schema.ToTableSchema(fields),
	}

	if _, err := bq.Tables.Insert(id.project, id.dataset, &table).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to create table %v (%w)", id, err)
	}

	infof("Created table %v with %v columns", id, schema.Leaves(fields))

	return nil
}
