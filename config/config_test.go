package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadWithMissingFile(t *testing.T) {
	expected := Default("/var/bigfoot")

	cfg, err := Load(filepath.Join(t.TempDir(), "bigfoot.yaml"), Default("/var/bigfoot"))
	if err != nil {
		t.Fatalf("Unexpected error loading config (%v)", err)
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("Incorrect config\n   expected: %+v\n   got:      %+v\n", expected, cfg)
	}
}

func TestLoad(t *testing.T) {
	expected := Config{
		Data:    "../data",
		Prefix:  "warehouse",
		Workdir: "/var/bigfoot",
		Google: Google{
			Credentials: "/etc/bigfoot/credentials.json",
		},
		BigQuery: BigQuery{
			Project:        "analytics",
			SnapshotExpiry: 14,
		},
		Sheets: Sheets{
			Header: []string{"Path", "Type", "Description"},
			Folder: "0B_folder",
		},
	}

	file := filepath.Join(t.TempDir(), "bigfoot.yaml")
	yaml := `
data: ../data
prefix: warehouse
google:
  credentials: /etc/bigfoot/credentials.json
bigquery:
  project: analytics
  snapshot-expiry: 14
sheets:
  header: [ Path, Type, Description ]
  folder: 0B_folder
`

	if err := os.WriteFile(file, []byte(yaml), 0600); err != nil {
		t.Fatalf("Error writing config file (%v)", err)
	}

	cfg, err := Load(file, Default("/var/bigfoot"))
	if err != nil {
		t.Fatalf("Unexpected error loading config (%v)", err)
	}

	if !reflect.DeepEqual(*cfg, expected) {
		t.Errorf("Incorrect config\n   expected: %+v\n   got:      %+v\n", expected, *cfg)
	}
}

func TestLoadWithInvalidHeader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bigfoot.yaml")

	if err := os.WriteFile(file, []byte("sheets:\n  header: [ Path, Colour ]\n"), 0600); err != nil {
		t.Fatalf("Error writing config file (%v)", err)
	}

	if _, err := Load(file, Default("/var/bigfoot")); err == nil {
		t.Errorf("Expected error for invalid header column, got %v", err)
	}
}

func TestLoadDoesNotModifyDefaults(t *testing.T) {
	defaults := Default("/var/bigfoot")
	file := filepath.Join(t.TempDir(), "bigfoot.yaml")

	if err := os.WriteFile(file, []byte("sheets:\n  header: [ Name ]\n"), 0600); err != nil {
		t.Fatalf("Error writing config file (%v)", err)
	}

	if _, err := Load(file, defaults); err != nil {
		t.Fatalf("Unexpected error loading config (%v)", err)
	}

	if !reflect.DeepEqual(defaults, Default("/var/bigfoot")) {
		t.Errorf("Defaults modified by Load (%+v)", defaults)
	}
}

func TestSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "etc", "bigfoot.yaml")
	expected := Default("/var/bigfoot")
	expected.BigQuery.Project = "analytics"

	if err := expected.Save(file); err != nil {
		t.Fatalf("Unexpected error saving config (%v)", err)
	}

	cfg, err := Load(file, Default(""))
	if err != nil {
		t.Fatalf("Unexpected error loading config (%v)", err)
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("Incorrect config\n   expected: %+v\n   got:      %+v\n", expected, cfg)
	}
}
