package searcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raesene/messenger-stats/pkg/database"
	"github.com/raesene/messenger-stats/pkg/models"
)

type Searcher struct {
	db *database.DB
}

// NewSearcher opens the database of an ingested conversation
func NewSearcher(dbDir, name string) (*Searcher, error) {
	db, err := database.NewDB(dbDir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Searcher{db: db}, nil
}

// Close closes the searcher and database connection
func (s *Searcher) Close() error {
	return s.db.Close()
}

// Search performs a full-text search
func (s *Searcher) Search(query string, limit int) ([]*models.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	return s.db.SearchMessages(query, limit)
}

// GetStats returns database statistics
func (s *Searcher) GetStats() (map[string]int, error) {
	return s.db.GetStats()
}

// FormatResults formats search results for display
func FormatResults(results []*models.SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, result := range results {
		date := result.Timestamp.Format("2006-01-02 15:04:05")

		output.WriteString(fmt.Sprintf("--- Result %d ---\n", i+1))
		output.WriteString(fmt.Sprintf("From: %s\n", result.Sender))
		output.WriteString(fmt.Sprintf("Date: %s\n", date))
		output.WriteString(fmt.Sprintf("File: %s\n", result.Filename))

		// Show snippet if available, otherwise show full text
		messageText := result.Text()
		if result.Snippet != "" {
			messageText = result.Snippet
		}

		messageText = strings.ReplaceAll(messageText, "\n", " ")
		if runes := []rune(messageText); len(runes) > 500 {
			messageText = string(runes[:497]) + "..."
		}

		output.WriteString(fmt.Sprintf("Message: %s\n\n", messageText))
	}

	return output.String()
}

// ValidateDatabaseExists checks if a database file exists for the given name
func ValidateDatabaseExists(dbDir, name string) bool {
	dbPath := filepath.Join(dbDir, database.SanitizeFilename(name)+".db")
	info, err := os.Stat(dbPath)
	return err == nil && !info.IsDir()
}

// ListDatabases lists all available database files
func ListDatabases(dbDir string) ([]string, error) {
	pattern := filepath.Join(dbDir, "*.db")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	var databases []string
	for _, match := range matches {
		base := filepath.Base(match)
		databases = append(databases, strings.TrimSuffix(base, ".db"))
	}

	return databases, nil
}
