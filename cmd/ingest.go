package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/raesene/messenger-stats/pkg/indexer"

	"github.com/spf13/cobra"
)

var IngestCmd = &cobra.Command{
	Use:   "ingest <name>",
	Short: "Index a conversation into a searchable database",
	Long: `Index a conversation and create a searchable database.

The conversation is resolved the same way as for stats. Running ingest again
replaces the previously indexed messages of that conversation.

Example:
  messenger-stats ingest alice`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var (
	databaseDir string
)

func init() {
	IngestCmd.Flags().StringVar(&databaseDir, "database-dir", "",
		"Directory holding the databases (default from config, databases)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	sess, cfg, logger, err := newSession()
	if err != nil {
		return err
	}
	if databaseDir != "" {
		cfg.DatabaseDir = databaseDir
	}

	title, err := selectConversation(sess, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Creating database for conversation: %s\n", title)

	idx, err := indexer.NewIndexer(cfg.DatabaseDir, sess.Reader, title, logger)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer idx.Close()

	result, err := idx.IndexConversation()
	if err != nil {
		return fmt.Errorf("failed to index conversation: %w", err)
	}

	fmt.Printf("Indexing complete!\n")
	fmt.Printf("- Messages: %d\n", result.Messages)
	fmt.Printf("- Searchable text messages: %d\n", result.SearchableText)
	fmt.Printf("- Files processed: %d\n", result.Files)
	fmt.Printf("\nDatabase created successfully: %s\n", filepath.Join(cfg.DatabaseDir, result.Database))

	return nil
}
