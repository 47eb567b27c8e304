package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raesene/messenger-stats/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn     *sql.DB
	filename string
}

// NewDB opens (creating if needed) the database for a conversation inside dir
func NewDB(dir, conversation string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	filename := SanitizeFilename(conversation) + ".db"
	dbPath := filepath.Join(dir, filename)

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:     conn,
		filename: filename,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// Filename returns the database file name
func (db *DB) Filename() string {
	return db.filename
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// SanitizeFilename replaces characters that are unsafe in file names
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		":", "_",
		"/", "_",
		"\\", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(name)
}

// createTables creates the necessary tables and FTS index
func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			title TEXT PRIMARY KEY,
			folder TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT,
			timestamp_ms INTEGER NOT NULL,
			date DATETIME,
			filename TEXT,
			FOREIGN KEY (conversation) REFERENCES conversations (title)
		)`,

		`CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts4(
			content,
			sender,
			filename
		)`,

		// Only text messages are searchable
		`CREATE TRIGGER IF NOT EXISTS messages_fts_insert AFTER INSERT ON messages
		WHEN new.content IS NOT NULL BEGIN
			INSERT INTO messages_fts(rowid, content, sender, filename)
			VALUES (new.id, new.content, new.sender, new.filename);
		END`,

		`CREATE TRIGGER IF NOT EXISTS messages_fts_delete AFTER DELETE ON messages BEGIN
			DELETE FROM messages_fts WHERE rowid = old.id;
		END`,

		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(date)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// Ingest is a single transaction that replaces one conversation's messages.
// Nothing is visible to readers until Commit; Rollback leaves the earlier
// copy untouched.
type Ingest struct {
	tx     *sql.Tx
	insert *sql.Stmt
}

// BeginIngest opens a transaction, removes everything previously ingested
// for title and records the conversation
func (db *DB) BeginIngest(title, folder string) (*Ingest, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation = ?`, title); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO conversations (title, folder) VALUES (?, ?)`, title, folder); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages (conversation, sender, content, timestamp_ms, date, filename)
			  VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}

	return &Ingest{tx: tx, insert: stmt}, nil
}

// InsertMessage inserts a message within the ingest transaction
func (in *Ingest) InsertMessage(message *models.Message, filename string) error {
	var content sql.NullString
	if message.Content != nil {
		content = sql.NullString{String: *message.Content, Valid: true}
	}

	_, err := in.insert.Exec(message.ConversationTitle, message.Sender, content,
		message.Timestamp.UnixMilli(), message.Timestamp.UTC(), filename)
	return err
}

// Commit makes the ingested messages visible
func (in *Ingest) Commit() error {
	in.insert.Close()
	return in.tx.Commit()
}

// Rollback discards the ingest. It is a no-op after Commit.
func (in *Ingest) Rollback() error {
	in.insert.Close()
	if err := in.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// SearchMessages performs full-text search on messages
func (db *DB) SearchMessages(query string, limit int) ([]*models.SearchResult, error) {
	sqlQuery := `
		SELECT
			m.id,
			m.conversation,
			m.sender,
			m.content,
			m.timestamp_ms,
			m.filename,
			0.0 as rank,
			snippet(messages_fts, '<mark>', '</mark>', '...', -1, 32) as snippet
		FROM messages_fts fts
		JOIN messages m ON m.id = fts.rowid
		WHERE messages_fts MATCH ?
		ORDER BY m.timestamp_ms
		LIMIT ?`

	rows, err := db.conn.Query(sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []*models.SearchResult
	for rows.Next() {
		result := &models.SearchResult{}
		var (
			content sql.NullString
			tsMS    int64
		)
		err := rows.Scan(
			&result.ID,
			&result.ConversationTitle,
			&result.Sender,
			&content,
			&tsMS,
			&result.Filename,
			&result.Rank,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if content.Valid {
			text := content.String
			result.Content = &text
		}
		result.Timestamp = time.UnixMilli(tsMS)
		results = append(results, result)
	}

	return results, rows.Err()
}

// GetStats returns basic statistics about the database
func (db *DB) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	queries := map[string]string{
		"conversations": "SELECT COUNT(*) FROM conversations",
		"messages":      "SELECT COUNT(*) FROM messages",
		"senders":       "SELECT COUNT(DISTINCT sender) FROM messages",
		"text_messages": "SELECT COUNT(*) FROM messages WHERE content IS NOT NULL",
	}

	for key, query := range queries {
		var count int
		err := db.conn.QueryRow(query).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s count: %w", key, err)
		}
		stats[key] = count
	}

	return stats, nil
}
