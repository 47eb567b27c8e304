package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/raesene/messenger-stats/cmd"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "messenger-stats",
	Short: "Statistics for Facebook Messenger exports",
	Long: `A tool to analyse the conversations of a Facebook Messenger JSON export.

It finds conversations by name, counts who sent how many messages and when,
lists the most common words, draws bar charts and can index a conversation
into a searchable database.

Commands:
  find <name>      List conversations matching a name
  stats <name>     Message counts and histograms for a conversation
  words <name>     Most common words of a conversation
  chart <name>     Serve a bar chart of a conversation
  ingest <name>    Index a conversation into a database
  search <query>   Search messages in a conversation database
  list             List available databases`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("messenger-stats %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Date: %s\n", date)
	},
}

func init() {
	cmd.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(cmd.FindCmd)
	rootCmd.AddCommand(cmd.StatsCmd)
	rootCmd.AddCommand(cmd.WordsCmd)
	rootCmd.AddCommand(cmd.ChartCmd)
	rootCmd.AddCommand(cmd.IngestCmd)
	rootCmd.AddCommand(cmd.SearchCmd)
	rootCmd.AddCommand(cmd.ListCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
