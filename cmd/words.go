package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var WordsCmd = &cobra.Command{
	Use:   "words <name>",
	Short: "Show the most common words of a conversation",
	Long: `Show the most frequent words of a conversation.

Words are lower-cased and only purely alphabetic tokens count, so numbers,
links, contractions and hyphenated words are ignored. Words listed in the
stopword file (one per line, common_words.txt by default) are skipped.

Example:
  messenger-stats words alice --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runWords,
}

var (
	wordsLimit     int
	wordsStopwords string
)

func init() {
	WordsCmd.Flags().IntVarP(&wordsLimit, "limit", "l", 0,
		"Maximum number of words to show (default from config, 50)")
	WordsCmd.Flags().StringVar(&wordsStopwords, "stopwords", "",
		"Stopword file (default common_words.txt)")
}

func runWords(cmd *cobra.Command, args []string) error {
	sess, cfg, _, err := newSession()
	if err != nil {
		return err
	}
	if wordsStopwords != "" {
		cfg.StopwordsFile = wordsStopwords
	}

	title, err := selectConversation(sess, args[0])
	if err != nil {
		return err
	}

	words, err := sess.Words(title, wordsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Most common words in conversation '%s':\n", title)
	for _, w := range words {
		fmt.Printf("%s: %d\n", w.Word, w.Count)
	}

	return nil
}
