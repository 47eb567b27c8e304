package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var FindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "List conversations matching a name",
	Long: `List the titles of conversations whose folder name contains the given name.

Spaces are ignored and matching is case-insensitive. Conversations with very long
titles (usually large group chats) are left out.

Example:
  messenger-stats find "alice"`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	sess, _, _, err := newSession()
	if err != nil {
		return err
	}

	titles, err := sess.Resolver.FindConversations(args[0])
	if err != nil {
		return fmt.Errorf("failed to search conversations: %w", err)
	}

	if len(titles) == 0 {
		fmt.Println("No conversations matched that input.")
		return nil
	}

	fmt.Printf("Matching conversations (%d):\n\n", len(titles))
	for _, t := range titles {
		fmt.Printf("  %s\n", t)
	}

	return nil
}
