// Copyright 2024 The bigfoot Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package bigfoot keeps BigQuery table schemas and their Google Sheets representation in step.

bigfoot is a command line tool that pulls, creates and updates BigQuery table schemas kept as local JSON
schema files, and renders a schema as a Google Sheets spreadsheet with a row per column and the nested
columns of each RECORD in a collapsible row group.

bigfoot supports the following commands:

  - authorise, to authorise access to Google Sheets and Google Drive
  - get-schema, to retrieve the schema of a BigQuery table to a local schema file
  - create-table, to create a BigQuery table from a local schema file
  - create-snapshot, to create an expiring snapshot of a BigQuery table
  - update-schema, to snapshot a BigQuery table and update its schema from a local schema file
  - create-sheet, to create a Google Sheets spreadsheet from a local schema file
  - pull-sheet, to retrieve a schema from a Google Sheets worksheet to a local schema file
*/
package bigfoot
