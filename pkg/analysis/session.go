package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/config"
	"github.com/raesene/messenger-stats/pkg/export"
	"github.com/raesene/messenger-stats/pkg/logging"
	"github.com/raesene/messenger-stats/pkg/metrics"
	"github.com/raesene/messenger-stats/pkg/models"
)

// DefaultUserName is used when the autofill file has no name
const DefaultUserName = "You"

// ErrNoConversation is returned when nothing matches a name fragment
var ErrNoConversation = errors.New("no conversations matched")

// AmbiguousError lists the candidates when a fragment matches several
// conversations
type AmbiguousError struct {
	Fragment   string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d conversations: %s",
		e.Fragment, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Session ties the resolver, reader and metrics to one configuration
type Session struct {
	cfg      *config.Config
	Resolver *export.Resolver
	Reader   *export.Reader
	logger   *zap.Logger
}

func NewSession(cfg *config.Config, logger *zap.Logger) (*Session, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	return &Session{
		cfg:      cfg,
		Resolver: export.NewResolver(cfg.InboxDir(), cfg.MaxTitleLength, logger),
		Reader:   export.NewReader(cfg.InboxDir(), loc, logger),
		logger:   logging.Named(logger, "analysis"),
	}, nil
}

// SelectConversation resolves a fragment to exactly one title. An exact
// title among several candidates wins; otherwise several matches are an
// *AmbiguousError.
func (s *Session) SelectConversation(fragment string) (string, error) {
	titles, err := s.Resolver.FindConversations(fragment)
	if err != nil {
		return "", err
	}

	switch len(titles) {
	case 0:
		return "", fmt.Errorf("%w %q", ErrNoConversation, fragment)
	case 1:
		s.logger.Debug("using only match", zap.String("title", titles[0]))
		return titles[0], nil
	}

	for _, t := range titles {
		if t == fragment {
			return t, nil
		}
	}
	return "", &AmbiguousError{Fragment: fragment, Candidates: titles}
}

// UserName returns the export owner's name from the autofill file, or
// DefaultUserName
func (s *Session) UserName() string {
	name, err := export.LoadAutofillName(s.cfg.AutofillPath(), s.cfg.AutofillKey)
	if err != nil {
		s.logger.Warn("failed to read autofill information", zap.Error(err))
	}
	if name == "" {
		return DefaultUserName
	}
	return name
}

// Stats aggregates a conversation, sequentially or across files in
// parallel. otherName defaults to the conversation title. A warning is
// logged when messages exist but none of them is attributed to either
// party, which means a name does not match the sender strings.
func (s *Session) Stats(ctx context.Context, title, userName, otherName string, parallel bool) (*models.ConversationStats, error) {
	if otherName == "" {
		otherName = title
	}

	var (
		stats *models.ConversationStats
		err   error
	)
	if parallel {
		stats, err = ParallelStats(ctx, s.Reader, title, userName, otherName, s.cfg.Workers)
	} else {
		stats, err = metrics.ComputeBasicStats(s.Reader.Messages(title), userName, otherName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for %q: %w", title, err)
	}

	if stats.TotalMessages > 0 && stats.MyMessageCount == 0 && stats.OtherMessageCount == 0 {
		s.logger.Warn("no messages attributed to either party; sender names must match exactly",
			zap.String("user", userName),
			zap.String("other", otherName),
			zap.Int("messages", stats.TotalMessages))
	}
	return stats, nil
}

// Words builds the word frequency table of a conversation using the
// configured stopword file
func (s *Session) Words(title string, limit int) ([]models.WordCount, error) {
	stopwords, err := export.LoadStopwords(s.cfg.StopwordsFile)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.WordLimit
	}
	words, err := metrics.MostCommonWords(s.Reader.Messages(title), stopwords, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count words for %q: %w", title, err)
	}
	return words, nil
}
