package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raesene/messenger-stats/pkg/chart"
	"github.com/raesene/messenger-stats/pkg/models"
)

var StatsCmd = &cobra.Command{
	Use:   "stats <name>",
	Short: "Show message counts for a conversation",
	Long: `Show how many messages each side sent, the span of the conversation and,
optionally, a histogram by month, day, hour or day of week.

Your name is read from messages/autofill_information.json; use --me when the
sender name in the export differs. Names are matched exactly.

Examples:
  messenger-stats stats alice
  messenger-stats stats alice --metric hourly
  messenger-stats stats "Alice Smith" --me "Bob Jones" --parallel`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var (
	statsMetric   string
	statsMe       string
	statsOther    string
	statsParallel bool
)

func init() {
	StatsCmd.Flags().StringVarP(&statsMetric, "metric", "m", "",
		"Histogram to print: monthly, daily, hourly or weekday")
	StatsCmd.Flags().StringVar(&statsMe, "me", "",
		"Your sender name (default from autofill information, else \"You\")")
	StatsCmd.Flags().StringVar(&statsOther, "other", "",
		"The other party's sender name (default the conversation title)")
	StatsCmd.Flags().BoolVar(&statsParallel, "parallel", false,
		"Aggregate message files concurrently")
}

func runStats(cmd *cobra.Command, args []string) error {
	var metric chart.Metric
	if statsMetric != "" {
		m, err := chart.ParseMetric(statsMetric)
		if err != nil {
			return err
		}
		metric = m
	}

	sess, _, _, err := newSession()
	if err != nil {
		return err
	}

	title, err := selectConversation(sess, args[0])
	if err != nil {
		return err
	}

	me := statsMe
	if me == "" {
		me = sess.UserName()
	}
	other := statsOther
	if other == "" {
		other = title
	}

	stats, err := sess.Stats(cmd.Context(), title, me, other, statsParallel)
	if err != nil {
		return err
	}

	printStats(stats, me, other)

	if metric != "" {
		series, err := chart.Build(metric, stats, me, other, time.Now())
		if err != nil {
			return err
		}
		printSeries(series, metric)
	}

	return nil
}

func printStats(stats *models.ConversationStats, me, other string) {
	fmt.Printf("\n%s's message count: %d\n", me, stats.MyMessageCount)
	fmt.Printf("%s's message count: %d\n", other, stats.OtherMessageCount)
	fmt.Printf("Total messages: %d\n", stats.TotalMessages)

	if span, ok := stats.SpanDays(); ok {
		fmt.Printf("Spanning %d days (%s – %s)\n", span,
			stats.FirstDate.Format("Monday January 02 2006"),
			stats.LastDate.Format("Monday January 02 2006"))
	}
}

// printSeries prints one line per bar. Zero-filled days and months are
// left out to keep the output short.
func printSeries(s chart.Series, metric chart.Metric) {
	fmt.Printf("\n%s\n", s.Title)
	for _, b := range s.Bars {
		if b.Count == 0 && (metric == chart.Daily || metric == chart.Monthly) {
			continue
		}
		fmt.Printf("  %-12s %d\n", b.Label, b.Count)
	}
}
