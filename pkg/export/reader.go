package export

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/logging"
	"github.com/raesene/messenger-stats/pkg/models"
)

const messageFilePattern = "message_*.json"

// Reader streams the messages of a conversation from the inbox directory.
// It holds no state between calls; every iteration re-reads the files.
type Reader struct {
	inboxDir string
	location *time.Location
	logger   *zap.Logger
}

// NewReader creates a reader over an inbox directory. Timestamps are
// converted into loc (time.Local when nil).
func NewReader(inboxDir string, loc *time.Location, logger *zap.Logger) *Reader {
	if loc == nil {
		loc = time.Local
	}
	return &Reader{
		inboxDir: inboxDir,
		location: loc,
		logger:   logging.Named(logger, "reader"),
	}
}

// Files lists every message file of the conversation. The order is lexical
// per folder, which is not chronological (message_10 sorts before message_2).
func (r *Reader) Files(title string) ([]string, error) {
	folders, err := matchFolders(r.inboxDir, escapePattern(Normalize(title))+"_*")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, folder := range folders {
		entries, err := os.ReadDir(folder)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := path.Match(messageFilePattern, entry.Name()); ok {
				files = append(files, filepath.Join(folder, entry.Name()))
			}
		}
	}
	return files, nil
}

// Messages yields every valid message of the conversation. Iteration stops
// at the first file that cannot be read or parsed, yielding its error.
// Messages come in file order, not in chronological order.
func (r *Reader) Messages(title string) iter.Seq2[models.Message, error] {
	return func(yield func(models.Message, error) bool) {
		files, err := r.Files(title)
		if err != nil {
			yield(models.Message{}, err)
			return
		}

		for _, file := range files {
			for msg, err := range r.FileMessages(file, title) {
				if !yield(msg, err) || err != nil {
					return
				}
			}
		}
	}
}

// FileMessages yields the valid messages of a single message file. The file
// is read and parsed as a whole before the first message is yielded.
func (r *Reader) FileMessages(file, title string) iter.Seq2[models.Message, error] {
	return func(yield func(models.Message, error) bool) {
		data, err := os.ReadFile(file)
		if err != nil {
			yield(models.Message{}, fmt.Errorf("failed to read %s: %w", file, err))
			return
		}

		var contents models.ExportFile
		if err := json.Unmarshal(data, &contents); err != nil {
			yield(models.Message{}, &ParseError{Path: file, Err: err})
			return
		}

		convTitle := title
		if contents.Title.Set {
			convTitle = contents.Title.Value
		}

		skipped := 0
		for _, raw := range contents.Messages {
			msg, ok := r.convert(raw, convTitle)
			if !ok {
				skipped++
				continue
			}
			if !yield(msg, nil) {
				return
			}
		}

		r.logger.Debug("read message file",
			zap.String("file", file),
			zap.Int("messages", len(contents.Messages)-skipped),
			zap.Int("skipped", skipped))
	}
}

// convert drops entries without a timestamp or sender; those are system
// events rather than messages
func (r *Reader) convert(raw models.RawMessage, title string) (models.Message, bool) {
	if !raw.TimestampMS.Set || !raw.SenderName.Set || raw.SenderName.Value == "" {
		return models.Message{}, false
	}

	msg := models.Message{
		Timestamp:         time.UnixMilli(raw.TimestampMS.Value).In(r.location),
		Sender:            raw.SenderName.Value,
		ConversationTitle: title,
	}
	if raw.Content.Set {
		content := raw.Content.Value
		msg.Content = &content
	}
	return msg, true
}
