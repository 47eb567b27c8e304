// Package export locates conversations in a Facebook Messenger export and
// streams their messages.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/logging"
	"github.com/raesene/messenger-stats/pkg/models"
)

// FirstMessageFile must exist for a folder to count as a conversation
const FirstMessageFile = "message_1.json"

type Resolver struct {
	inboxDir       string
	maxTitleLength int
	logger         *zap.Logger
}

// NewResolver creates a resolver over an inbox directory. Titles longer
// than maxTitleLength runes are rejected; that filters out group threads
// whose generated titles list every participant.
func NewResolver(inboxDir string, maxTitleLength int, logger *zap.Logger) *Resolver {
	return &Resolver{
		inboxDir:       inboxDir,
		maxTitleLength: maxTitleLength,
		logger:         logging.Named(logger, "resolver"),
	}
}

// FindConversations returns the sorted, distinct titles of conversations
// whose folder name contains the normalized fragment
func (r *Resolver) FindConversations(fragment string) ([]string, error) {
	normalized := Normalize(fragment)
	if normalized == "" {
		return []string{}, nil
	}

	folders, err := matchFolders(r.inboxDir, "*"+escapePattern(normalized)+"*_*")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	titles := []string{}
	for _, folder := range folders {
		messageFile := filepath.Join(folder, FirstMessageFile)
		data, err := os.ReadFile(messageFile)
		if os.IsNotExist(err) {
			r.logger.Debug("skipping folder without first message file", zap.String("folder", folder))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", messageFile, err)
		}

		title, ok, err := extractTitle(data)
		if err != nil {
			return nil, &ParseError{Path: messageFile, Err: err}
		}
		if !ok || title == "" {
			r.logger.Debug("skipping folder without title", zap.String("folder", folder))
			continue
		}
		if utf8.RuneCountInString(title) > r.maxTitleLength {
			r.logger.Debug("skipping long title",
				zap.String("folder", folder),
				zap.Int("length", utf8.RuneCountInString(title)))
			continue
		}

		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}

	sort.Strings(titles)
	return titles, nil
}

// extractTitle reads the top-level title and falls back to a depth-first
// search when an export nests it elsewhere
func extractTitle(data []byte) (string, bool, error) {
	var head struct {
		Title models.OptionalString `json:"title"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", false, err
	}
	if head.Title.Set {
		return head.Title.Value, true, nil
	}

	tree, err := decodeOrdered(data)
	if err != nil {
		return "", false, err
	}
	title, ok := lookupString(tree, "title")
	return title, ok, nil
}

// Normalize turns a display name into the form used in folder names
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// escapePattern makes s match itself literally in a path.Match pattern
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matchFolders lists the directories directly under dir whose name matches
// pattern, in lexical order. A missing dir yields no folders.
func matchFolders(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var folders []string
	for _, entry := range entries {
		matched, err := path.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid folder pattern %q: %w", pattern, err)
		}
		if !matched {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		// Stat follows symlinked conversation folders
		info, err := os.Stat(full)
		if err != nil || !info.IsDir() {
			continue
		}
		folders = append(folders, full)
	}
	return folders, nil
}
