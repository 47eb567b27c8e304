package cmd

import (
	"fmt"

	"github.com/raesene/messenger-stats/pkg/config"
	"github.com/raesene/messenger-stats/pkg/searcher"

	"github.com/spf13/cobra"
)

var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search messages in a conversation database",
	Long: `Search for messages in a conversation database using full-text search.

The search supports SQLite FTS syntax including quoted phrases,
boolean operators (AND, OR, NOT), and prefix matching.

Examples:
  messenger-stats search "dinner" --database Alice_Smith
  messenger-stats search "birthday OR party" --database Alice_Smith
  messenger-stats search "holi*" --database Alice_Smith --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available databases",
	Long:  `List all ingested conversation databases that can be searched.`,
	RunE:  runList,
}

var (
	databaseName string
	searchLimit  int
	showStats    bool
	searchDBDir  string
)

func init() {
	SearchCmd.Flags().StringVarP(&databaseName, "database", "d", "",
		"Database name, as shown by list (required)")
	SearchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10,
		"Maximum number of results to return")
	SearchCmd.Flags().BoolVar(&showStats, "stats", false,
		"Show database statistics")

	SearchCmd.MarkFlagRequired("database")

	for _, c := range []*cobra.Command{SearchCmd, ListCmd} {
		c.Flags().StringVar(&searchDBDir, "database-dir", "",
			"Directory holding the databases (default from config, databases)")
	}
}

func dbDir(cfg *config.Config) string {
	if searchDBDir != "" {
		return searchDBDir
	}
	return cfg.DatabaseDir
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, _, err := setup()
	if err != nil {
		return err
	}
	dir := dbDir(cfg)

	if !searcher.ValidateDatabaseExists(dir, databaseName) {
		return fmt.Errorf("database not found: %s. Run 'messenger-stats list' to see available databases", databaseName)
	}

	search, err := searcher.NewSearcher(dir, databaseName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer search.Close()

	if showStats {
		stats, err := search.GetStats()
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Database: %s\n", databaseName)
		fmt.Printf("- Conversations: %d\n", stats["conversations"])
		fmt.Printf("- Senders: %d\n", stats["senders"])
		fmt.Printf("- Messages: %d\n", stats["messages"])
		fmt.Printf("- Text messages: %d\n\n", stats["text_messages"])
	}

	fmt.Printf("Searching for: %s\n", query)
	fmt.Printf("Database: %s\n", databaseName)
	fmt.Printf("Limit: %d\n\n", searchLimit)

	results, err := search.Search(query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Print(searcher.FormatResults(results))

	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	databases, err := searcher.ListDatabases(dbDir(cfg))
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	if len(databases) == 0 {
		fmt.Println("No databases found. Use 'ingest' command to create a database first.")
		return nil
	}

	fmt.Printf("Available databases (%d):\n\n", len(databases))
	for _, db := range databases {
		fmt.Printf("  %s\n", db)
	}

	fmt.Printf("\nUse 'messenger-stats search <query> --database <name>' to search.\n")

	return nil
}
