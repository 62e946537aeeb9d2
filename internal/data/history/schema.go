package history

import (
	"database/sql"
	"time"
)

const SchemaVersion = 1

// Run is one recorded bundling run. The artifact hash is what idempotence
// checks compare across runs of an unchanged workspace.
type Run struct {
	ID              string
	Timestamp       time.Time
	Root            string
	Policy          string
	Workspace       string
	ArtifactPath    string
	ArtifactSHA256  string
	UnitCount       int
	NamespaceCount  int
	DiagnosticCount int
	Duration        time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
  id               TEXT PRIMARY KEY,
  ts_utc           TEXT NOT NULL,
  root             TEXT NOT NULL,
  policy           TEXT NOT NULL,
  workspace        TEXT NOT NULL,
  artifact_path    TEXT NOT NULL,
  artifact_sha256  TEXT NOT NULL,
  unit_count       INTEGER NOT NULL,
  namespace_count  INTEGER NOT NULL,
  diagnostic_count INTEGER NOT NULL,
  duration_ms      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_root_ts ON runs (root, ts_utc DESC);
`

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_meta`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, SchemaVersion)
		return err
	}
	return nil
}
