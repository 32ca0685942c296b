// Package database stores audit history in SQLite.
//
// Every finished audit is appended as one row: headline counts for the
// history listing, plus the full result as JSON for later inspection.
// The database is append-only from the application's point of view;
// old audits are the baseline new ones are compared against.
package database
