package cmd

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/raesene/messenger-stats/pkg/chart"
)

var ChartCmd = &cobra.Command{
	Use:   "chart <name>",
	Short: "Serve a bar chart of a conversation",
	Long: `Serve a bar chart of a conversation's messages on a local address until
interrupted. The raw series is available at /data.json.

Example:
  messenger-stats chart alice --metric monthly --addr 127.0.0.1:8050`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartMetric string
	chartAddr   string
	chartMe     string
)

func init() {
	ChartCmd.Flags().StringVarP(&chartMetric, "metric", "m", string(chart.Daily),
		"Chart to show: monthly, daily, hourly or weekday")
	ChartCmd.Flags().StringVar(&chartAddr, "addr", "",
		"Listen address (default from config, 127.0.0.1:8050)")
	ChartCmd.Flags().StringVar(&chartMe, "me", "",
		"Your sender name (default from autofill information, else \"You\")")
}

func runChart(cmd *cobra.Command, args []string) error {
	metric, err := chart.ParseMetric(chartMetric)
	if err != nil {
		return err
	}

	sess, cfg, logger, err := newSession()
	if err != nil {
		return err
	}

	title, err := selectConversation(sess, args[0])
	if err != nil {
		return err
	}

	me := chartMe
	if me == "" {
		me = sess.UserName()
	}

	stats, err := sess.Stats(cmd.Context(), title, me, title, false)
	if err != nil {
		return err
	}
	printStats(stats, me, title)

	series, err := chart.Build(metric, stats, me, title, time.Now())
	if err != nil {
		return err
	}

	addr := chartAddr
	if addr == "" {
		addr = cfg.ChartAddr
	}

	srv := chart.NewServer(series, logger)
	return srv.ListenAndServe(cmd.Context(), addr, func(a net.Addr) {
		fmt.Printf("\nServing chart at http://%s/ (Ctrl+C to stop)\n", a)
	})
}
