package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

// SQLiteArchive implements Archive using SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (or creates) a SQLite database at the given path.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	a := &SQLiteArchive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return a, nil
}

func (a *SQLiteArchive) migrate() error {
	for _, stmt := range migrations {
		if _, err := a.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *SQLiteArchive) SaveReport(ctx context.Context, taskID string, report watchdog.Report) error {
	actionsJSON, _ := json.Marshal(report.AttemptedActions)

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO stuck_reports (task_id, reason, actions, duration_seconds, suggestion) VALUES (?, ?, ?, ?, ?)`,
		taskID, report.Reason, string(actionsJSON), report.Duration.Seconds(), report.Suggestion,
	)
	return err
}

func (a *SQLiteArchive) ListReports(ctx context.Context, taskID string, limit int) ([]StoredReport, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, task_id, reason, actions, duration_seconds, suggestion, created_at FROM (
			SELECT id, task_id, reason, actions, duration_seconds, suggestion, created_at
			FROM stuck_reports WHERE task_id = ? ORDER BY id DESC LIMIT ?
		) sub ORDER BY id ASC`,
		taskID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var r StoredReport
		var actionsJSON string

		if err := rows.Scan(&r.ID, &r.TaskID, &r.Reason, &actionsJSON, &r.DurationSeconds, &r.Suggestion, &r.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(actionsJSON), &r.Actions)

		reports = append(reports, r)
	}

	return reports, rows.Err()
}

func (a *SQLiteArchive) SaveTaskOutcome(ctx context.Context, outcome TaskOutcome) error {
	completed := 0
	if outcome.Completed {
		completed = 1
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO task_outcomes (task_id, goal, steps, completed, finished_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		outcome.TaskID, outcome.Goal, outcome.Steps, completed,
	)
	return err
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}
