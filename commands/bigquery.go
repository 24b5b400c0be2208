package commands

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/bigquery/v2"

	"github.com/bigfoot-data/bigfoot/config"
)

const POLL_INTERVAL = 1 * time.Second

// bqcommand holds the options common to the BigQuery table commands.
type bqcommand struct {
	command
	project string
	dataset string
	table   string
}

type tableID struct {
	project string
	dataset string
	table   string
}

func (id tableID) String() string {
	return fmt.Sprintf("%v.%v.%v", id.project, id.dataset, id.table)
}

func (t *bqcommand) flagset(name string) *flag.FlagSet {
	flagset := t.command.flagset(name)

	flagset.StringVar(&t.project, "project", t.project, "Google Cloud project ID. Defaults to the configured 'bigquery.project'")
	flagset.StringVar(&t.dataset, "dataset", t.dataset, "BigQuery dataset")
	flagset.StringVar(&t.table, "table", t.table, "BigQuery table")

	return flagset
}

func (t *bqcommand) validate(cfg *config.Config) (*tableID, error) {
	id := tableID{
		project: strings.TrimSpace(t.project),
		dataset: strings.TrimSpace(t.dataset),
		table:   strings.TrimSpace(t.table),
	}

	if id.project == "" {
		id.project = cfg.BigQuery.Project
	}

	if id.project == "" {
		return nil, fmt.Errorf("--project is a required option")
	}

	if id.dataset == "" {
		return nil, fmt.Errorf("--dataset is a required option")
	}

	if id.table == "" {
		return nil, fmt.Errorf("--table is a required option")
	}

	if !regexp.MustCompile(`^[a-zA-Z0-9.:_-]+$`).MatchString(id.project) {
		return nil, fmt.Errorf("invalid project ID '%v'", id.project)
	}

	if !regexp.MustCompile(`^[a-zA-Z0-9_]+$`).MatchString(id.dataset) {
		return nil, fmt.Errorf("invalid dataset '%v'", id.dataset)
	}

	if !regexp.MustCompile(`^[\p{L}\p{M}\p{N}_-]+$`).MatchString(id.table) {
		return nil, fmt.Errorf("invalid table name '%v'", id.table)
	}

	return &id, nil
}

// snapshotQuery returns the DDL statement that creates a snapshot of a table, along with the
// name of the snapshot table. The snapshot expires after 'days' days, or never if 'days' is 0.
func snapshotQuery(id tableID, now time.Time, days uint) (string, string) {
	snapshot := fmt.Sprintf("%v_backup_%v", id.table, now.UnixMilli())

	query := fmt.Sprintf("CREATE SNAPSHOT TABLE `%v`.%v.%v CLONE `%v`.%v.%v",
		id.project, id.dataset, snapshot,
		id.project, id.dataset, id.table)

	if days > 0 {
		query += fmt.Sprintf(" OPTIONS(expiration_timestamp = TIMESTAMP_ADD(CURRENT_TIMESTAMP(), INTERVAL %v DAY))", days)
	}

	return query, snapshot
}

func createSnapshot(ctx context.Context, bq *bigquery.Service, id tableID, days uint, debug bool) (string, error) {
	query, snapshot := snapshotQuery(id, time.Now(), days)

	if debug {
		debugf("%v", query)
	}

	if err := execute(ctx, bq, id.project, query); err != nil {
		return "", fmt.Errorf("error creating snapshot of %v (%w)", id, err)
	}

	return snapshot, nil
}

// execute runs a standard SQL query job and waits for it to complete.
func execute(ctx context.Context, bq *bigquery.Service, project string, query string) error {
	legacy := false
	job := bigquery.Job{
		Configuration: &bigquery.JobConfiguration{
			Query: &bigquery.JobConfigurationQuery{
				Query:        query,
				UseLegacySql: &legacy,
			},
		},
	}

	response, err := bq.Jobs.Insert(project, &job).Context(ctx).Do()
	if err != nil {
		return err
	}

	for response.Status == nil || response.Status.State != "DONE" {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(POLL_INTERVAL):
		}

		ref := response.JobReference
		if response, err = bq.Jobs.Get(ref.ProjectId, ref.JobId).Location(ref.Location).Context(ctx).Do(); err != nil {
			return err
		}
	}

	return jobError(response.Status)
}

func jobError(status *bigquery.JobStatus) error {
	if status == nil || (status.ErrorResult == nil && len(status.Errors) == 0) {
		return nil
	}

	messages := []string{}
	if status.ErrorResult != nil {
		messages = append(messages, status.ErrorResult.Message)
	}

	for _, e := range status.Errors {
		if e != nil && (status.ErrorResult == nil || e.Message != status.ErrorResult.Message) {
			messages = append(messages, e.Message)
		}
	}

	return fmt.Errorf("query has errors: %v", strings.Join(messages, "; "))
}
