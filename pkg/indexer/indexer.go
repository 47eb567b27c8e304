package indexer

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/database"
	"github.com/raesene/messenger-stats/pkg/export"
	"github.com/raesene/messenger-stats/pkg/logging"
)

// progressEvery is how many messages are inserted between progress logs
const progressEvery = 5000

// Result summarises one ingest run
type Result struct {
	Database       string
	Files          int
	Messages       int
	SearchableText int
}

type Indexer struct {
	db     *database.DB
	reader *export.Reader
	title  string
	logger *zap.Logger
}

// NewIndexer creates an indexer writing the conversation into dbDir
func NewIndexer(dbDir string, reader *export.Reader, title string, logger *zap.Logger) (*Indexer, error) {
	db, err := database.NewDB(dbDir, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return &Indexer{
		db:     db,
		reader: reader,
		title:  title,
		logger: logging.Named(logger, "indexer"),
	}, nil
}

// Close closes the indexer and database connection
func (idx *Indexer) Close() error {
	return idx.db.Close()
}

// IndexConversation replaces any earlier copy of the conversation with the
// messages currently on disk. A file that fails to parse aborts the run and
// leaves the earlier copy in place.
func (idx *Indexer) IndexConversation() (*Result, error) {
	files, err := idx.reader.Files(idx.title)
	if err != nil {
		return nil, fmt.Errorf("failed to list message files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no message files found for %q", idx.title)
	}

	idx.logger.Info("indexing conversation",
		zap.String("title", idx.title),
		zap.Int("files", len(files)))

	ingest, err := idx.db.BeginIngest(idx.title, filepath.Dir(files[0]))
	if err != nil {
		return nil, fmt.Errorf("failed to start ingest: %w", err)
	}
	defer ingest.Rollback()

	result := &Result{Database: idx.db.Filename()}
	for _, file := range files {
		filename := filepath.Base(file)
		for msg, err := range idx.reader.FileMessages(file, idx.title) {
			if err != nil {
				return nil, err
			}
			if err := ingest.InsertMessage(&msg, filename); err != nil {
				return nil, fmt.Errorf("failed to insert message: %w", err)
			}
			result.Messages++
			if msg.Content != nil {
				result.SearchableText++
			}
			if result.Messages%progressEvery == 0 {
				idx.logger.Info("indexed messages", zap.Int("messages", result.Messages))
			}
		}

		result.Files++
		idx.logger.Debug("processed file",
			zap.String("file", filename),
			zap.Int("processed", result.Files),
			zap.Int("total", len(files)))
	}

	if err := ingest.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ingest: %w", err)
	}

	return result, nil
}
