package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MetadataDB handles SQLite database operations
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB creates a new metadata database
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Create table if not exists
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS meetings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		request_name TEXT NOT NULL,
		source_type TEXT NOT NULL,
		stage TEXT NOT NULL,
		error TEXT,
		output_dir TEXT,
		gdrive_url TEXT,
		language TEXT,
		created_at DATETIME NOT NULL,
		duration REAL,
		word_count INTEGER,
		speaker_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_created_at ON meetings(created_at);
	CREATE INDEX IF NOT EXISTS idx_request_name ON meetings(request_name);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveMeeting records the outcome of one processing run. stage is the
// furthest stage the run reached; errMsg is empty for completed runs.
func (mdb *MetadataDB) SaveMeeting(
	jobID, requestName, sourceType, stage, errMsg, outputDir, gdriveURL, language string,
	duration float64, wordCount, speakerCount int,
) error {
	query := `
	INSERT INTO meetings (job_id, request_name, source_type, stage, error, output_dir, gdrive_url, language, created_at, duration, word_count, speaker_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(job_id) DO UPDATE SET
		stage = excluded.stage,
		error = excluded.error,
		gdrive_url = excluded.gdrive_url,
		duration = excluded.duration,
		word_count = excluded.word_count,
		speaker_count = excluded.speaker_count
	`

	_, err := mdb.db.Exec(query, jobID, requestName, sourceType, stage, errMsg,
		outputDir, gdriveURL, language, time.Now(), duration, wordCount, speakerCount)
	if err != nil {
		return fmt.Errorf("failed to save meeting metadata: %v", err)
	}

	return nil
}

// GetMeeting retrieves meeting metadata by job ID
func (mdb *MetadataDB) GetMeeting(jobID string) (map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, stage, error, output_dir, gdrive_url, language, created_at, duration, word_count, speaker_count
	FROM meetings WHERE job_id = ?
	`

	row := mdb.db.QueryRow(query, jobID)
	return scanMeeting(row.Scan)
}

// ListMeetings returns the most recent meetings, newest first
func (mdb *MetadataDB) ListMeetings(limit int) ([]map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, stage, error, output_dir, gdrive_url, language, created_at, duration, word_count, speaker_count
	FROM meetings ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %v", err)
	}
	defer rows.Close()

	var meetings []map[string]interface{}

	for rows.Next() {
		m, err := scanMeeting(rows.Scan)
		if err != nil {
			continue
		}
		meetings = append(meetings, m)
	}

	return meetings, nil
}

func scanMeeting(scan func(dest ...any) error) (map[string]interface{}, error) {
	var (
		jid, name, source, stage           string
		errMsg, outputDir, gdrive, lang    sql.NullString
		createdAt                          time.Time
		duration                           float64
		wordCount, speakerCount            int
	)

	err := scan(&jid, &name, &source, &stage, &errMsg, &outputDir, &gdrive, &lang,
		&createdAt, &duration, &wordCount, &speakerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan meeting: %v", err)
	}

	return map[string]interface{}{
		"job_id":        jid,
		"request_name":  name,
		"source_type":   source,
		"stage":         stage,
		"error":         errMsg.String,
		"output_dir":    outputDir.String,
		"gdrive_url":    gdrive.String,
		"language":      lang.String,
		"created_at":    createdAt,
		"duration":      duration,
		"word_count":    wordCount,
		"speaker_count": speakerCount,
	}, nil
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
