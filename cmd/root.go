package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/analysis"
	"github.com/raesene/messenger-stats/pkg/config"
	"github.com/raesene/messenger-stats/pkg/logging"
)

var (
	configPath string
	exportRoot string
	logLevel   string
	logFormat  string
)

// AddPersistentFlags registers the flags shared by every command
func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "",
		"Config file (default messenger-stats.yaml in the working directory)")
	flags.StringVarP(&exportRoot, "export-root", "r", "",
		"Root of the Facebook export, where messages/ lives (default working directory)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

// setup loads the configuration, applies flag overrides and builds the logger
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if exportRoot != "" {
		cfg.ExportRoot = exportRoot
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("export_root", cfg.ExportRoot),
		zap.String("inbox", cfg.InboxDir()))

	return cfg, logger, nil
}

// newSession is setup plus the analysis session built from it
func newSession() (*analysis.Session, *config.Config, *zap.Logger, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, nil, nil, err
	}
	sess, err := analysis.NewSession(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return sess, cfg, logger, nil
}

// selectConversation resolves a fragment and lists the candidates when it
// is ambiguous
func selectConversation(sess *analysis.Session, fragment string) (string, error) {
	title, err := sess.SelectConversation(fragment)
	var ambiguous *analysis.AmbiguousError
	if errors.As(err, &ambiguous) {
		fmt.Printf("Several conversations match %q:\n", fragment)
		for _, c := range ambiguous.Candidates {
			fmt.Printf("  %s\n", c)
		}
		return "", fmt.Errorf("ambiguous conversation, pass one of the titles above in full")
	}
	if err != nil {
		return "", err
	}
	return title, nil
}
