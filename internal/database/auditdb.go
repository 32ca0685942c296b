package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ixanadu/saa/internal/model"
)

// DBFileName is the SQLite file created inside the data directory.
const DBFileName = "saa.db"

// AuditDB provides SQLite-based storage for audit history.
// It manages connection pooling and provides methods for saving and
// listing past audits.
//
// Design decision: We use one database file for all audited sites
// rather than a file per site. History queries cut across sites
// ("what did I audit last week") and a single file keeps backup and
// cleanup trivial.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most uses.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB in the specified directory.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, os.ErrNotExist)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audits store one row per finished audit session
	CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		mode TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		pages_crawled INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		critical_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		info_count INTEGER NOT NULL,
		incomplete INTEGER NOT NULL DEFAULT 0,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_url ON audits(start_url);
	CREATE INDEX IF NOT EXISTS idx_audits_started ON audits(started_at);

	-- Findings are duplicated out of result_json for per-check queries
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		audit_id INTEGER NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
		check_id TEXT NOT NULL,
		url TEXT NOT NULL,
		severity INTEGER NOT NULL,
		message TEXT NOT NULL,
		evidence TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_findings_audit ON findings(audit_id);
	CREATE INDEX IF NOT EXISTS idx_findings_check ON findings(check_id);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAudit stores a finished audit and its findings, returning the
// new audit row id.
func (adb *AuditDB) SaveAudit(ctx context.Context, result *model.AuditResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize audit result: %w", err)
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, `
	INSERT INTO audits (start_url, mode, started_at, pages_crawled, pages_failed,
		critical_count, warning_count, info_count, incomplete, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.StartURL,
		result.Mode,
		result.StartedAt.UTC().Format(time.RFC3339),
		result.PagesCrawled(),
		result.PagesFailed(),
		result.CountBySeverity(model.SeverityCritical),
		result.CountBySeverity(model.SeverityWarning),
		result.CountBySeverity(model.SeverityInfo),
		boolToInt(result.Incomplete),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit: %w", err)
	}
	auditID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read audit id: %w", err)
	}

	for _, f := range result.Findings {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO findings (audit_id, check_id, url, severity, message, evidence)
		VALUES (?, ?, ?, ?, ?, ?)
		`, auditID, f.CheckID, f.URL, int(f.Severity), f.Message, f.Evidence); err != nil {
			return 0, fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit audit: %w", err)
	}
	return auditID, nil
}

// AuditSummary is one row of the history listing.
type AuditSummary struct {
	ID            int64
	StartURL      string
	Mode          string
	StartedAt     time.Time
	PagesCrawled  int
	PagesFailed   int
	CriticalCount int
	WarningCount  int
	InfoCount     int
	Incomplete    bool
}

// ListAudits returns past audits, newest first. An empty startURL
// lists all sites; limit <= 0 means no limit.
func (adb *AuditDB) ListAudits(ctx context.Context, startURL string, limit int) ([]AuditSummary, error) {
	query := `
	SELECT id, start_url, mode, started_at, pages_crawled, pages_failed,
		critical_count, warning_count, info_count, incomplete
	FROM audits
	`
	args := make([]any, 0, 2)
	if startURL != "" {
		query += " WHERE start_url = ?"
		args = append(args, startURL)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	var results []AuditSummary
	for rows.Next() {
		var s AuditSummary
		var startedAt string
		var incomplete int
		if err := rows.Scan(
			&s.ID,
			&s.StartURL,
			&s.Mode,
			&startedAt,
			&s.PagesCrawled,
			&s.PagesFailed,
			&s.CriticalCount,
			&s.WarningCount,
			&s.InfoCount,
			&incomplete,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		s.StartedAt = parseTimestamp(startedAt)
		s.Incomplete = incomplete != 0
		results = append(results, s)
	}
	return results, rows.Err()
}

// GetAudit retrieves a full stored audit result by row id. Returns
// nil without error when the id does not exist.
func (adb *AuditDB) GetAudit(ctx context.Context, id int64) (*model.AuditResult, error) {
	var resultJSON string
	err := adb.db.QueryRowContext(ctx,
		"SELECT result_json FROM audits WHERE id = ?", id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	var result model.AuditResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse stored audit: %w", err)
	}
	return &result, nil
}

// timestampFormats are the layouts SQLite may hand back depending on
// how the value was written.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
