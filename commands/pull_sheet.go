package commands

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/bigfoot-data/bigfoot/schema"
	"github.com/bigfoot-data/bigfoot/spreadsheet"
)

var PullSheetCmd = PullSheet{
	command: command{
		workdir: "",
		data:    "",
		prefix:  "",
		debug:   false,
	},
	credentials: "",
	url:         "",
	area:        "A1:I",
	name:        "",
	tsv:         "",
	dryrun:      false,
}

// PullSheet reads a schema worksheet (e.g. one created with create-sheet and subsequently edited)
// and stores it as a local schema file.
type PullSheet struct {
	command
	credentials string
	url         string
	area        string
	name        string
	tsv         string
	dryrun      bool
}

func (cmd *PullSheet) Name() string {
	return "pull-sheet"
}

func (cmd *PullSheet) Description() string {
	return "Retrieves a schema from a Google Sheets worksheet and stores it to a local schema file"
}

func (cmd *PullSheet) Usage() string {
	return "--url <url> --name <schema>"
}

func (cmd *PullSheet) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] pull-sheet [options] --url <URL> --name <schema>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves a schema from a Google Sheets worksheet and stores it to <data>/<prefix>__<name>.json")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    bigfoot pull-sheet --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                       --range "orders!A1:I" \`)
	fmt.Println(`                       --name orders`)
	fmt.Println(`    bigfoot pull-sheet --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" --name orders --tsv orders.tsv`)
	fmt.Println()
}

func (cmd *PullSheet) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("pull-sheet")

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")
	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'orders!A1:I'. Defaults to A1:I of the first worksheet")
	flagset.StringVar(&cmd.name, "name", cmd.name, "Schema name")
	flagset.StringVar(&cmd.prefix, "prefix", cmd.prefix, "Schema file prefix. Defaults to the configured 'prefix'")
	flagset.StringVar(&cmd.tsv, "tsv", cmd.tsv, "Also writes the worksheet to a tab separated file")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Reports the changes to the local schema file without updating it")

	return flagset
}

func (cmd *PullSheet) Execute(args ...any) error {
	ctx, cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	name := strings.TrimSpace(cmd.name)
	if name == "" {
		return fmt.Errorf("--name is a required option")
	}

	spreadsheetId, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheetId, cmd.area)
	}

	gclient, err := connect(ctx, cfg, cmd.credentials)
	if err != nil {
		return err
	}

	response, err := gclient.sheets.Spreadsheets.Values.Get(spreadsheetId, cmd.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	fields, err := spreadsheet.ParseSchema(response.Values)
	if err != nil {
		return fmt.Errorf("error creating schema from worksheet (%w)", err)
	}

	existing, err := schema.Load(cfg.Data, cfg.Prefix, name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		warnf("%v", err)
	} else if err == nil {
		schema.Restore(fields, existing)

		added, removed := schema.Diff(existing, fields)
		for _, path := range added {
			infof("  added   %v", path)
		}

		for _, path := range removed {
			infof("  removed %v", path)
		}
	}

	if cmd.dryrun {
		return nil
	}

	if cmd.tsv != "" {
		if err := saveTSV(cmd.tsv, response.Values); err != nil {
			return err
		}

		infof("Saved worksheet to %v", cmd.tsv)
	}

	file, err := schema.Save(cfg.Data, cfg.Prefix, name, fields)
	if err != nil {
		return err
	}

	infof("Retrieved %v columns to %v", schema.Leaves(fields), file)

	return nil
}

func saveTSV(file string, values [][]any) error {
	var b bytes.Buffer
	if err := spreadsheet.SheetToTSV(&b, values); err != nil {
		return err
	}

	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return err
		}
	}

	return renameio.WriteFile(file, b.Bytes(), 0660)
}
