package archive

// migrations is the ordered list of SQL migration statements.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stuck_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		actions TEXT NOT NULL,
		duration_seconds REAL NOT NULL,
		suggestion TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stuck_reports_task ON stuck_reports(task_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS task_outcomes (
		task_id TEXT PRIMARY KEY,
		goal TEXT NOT NULL,
		steps INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	)`,
}
