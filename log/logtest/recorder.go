/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/crpt-tools/crptapi/log"
)

// RecordedEntry is a logged entry.
type RecordedEntry struct {
	Fields []log.Field
	Level  log.Level
	Time   time.Time
	Text   string
}

// FindField returns the field with the key.
func (re *RecordedEntry) FindField(key string) (log.Field, bool) {
	for _, field := range re.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return log.Field{}, false
}

type recordingWriter struct {
	mu      sync.RWMutex
	entries []RecordedEntry
}

//nolint:gocritic
func (w *recordingWriter) WriteEntry(e logf.Entry) {
	fields := append(append([]log.Field{}, e.DerivedFields...), e.Fields...)
	w.mu.Lock()
	w.entries = append(w.entries, RecordedEntry{
		Fields: fields,
		Level:  fromLogfLevel(e.Level),
		Time:   e.Time,
		Text:   e.Text,
	})
	w.mu.Unlock()
}

// Recorder is a log.FieldLogger that keeps every entry in memory. It logs at debug level.
type Recorder struct {
	*log.LogfAdapter
	writer *recordingWriter
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	w := &recordingWriter{}
	return &Recorder{&log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, w)}, w}
}

// With returns a Recorder sharing the same storage, with additional fields.
func (r *Recorder) With(fs ...log.Field) log.FieldLogger {
	return &Recorder{r.LogfAdapter.With(fs...).(*log.LogfAdapter), r.writer}
}

// WithLevel returns a Recorder sharing the same storage, with additional level check.
func (r *Recorder) WithLevel(level log.Level) log.FieldLogger {
	return &Recorder{r.LogfAdapter.WithLevel(level).(*log.LogfAdapter), r.writer}
}

// Entries returns a copy of all recorded entries.
func (r *Recorder) Entries() []RecordedEntry {
	r.writer.mu.RLock()
	defer r.writer.mu.RUnlock()
	return append([]RecordedEntry{}, r.writer.entries...)
}

// FindEntry returns the first entry with the message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	for _, entry := range r.Entries() {
		if entry.Text == msg {
			return entry, true
		}
	}
	return RecordedEntry{}, false
}

// FindAllEntries returns all entries with the message.
func (r *Recorder) FindAllEntries(msg string) []RecordedEntry {
	var found []RecordedEntry
	for _, entry := range r.Entries() {
		if entry.Text == msg {
			found = append(found, entry)
		}
	}
	return found
}

// Reset drops all recorded entries.
func (r *Recorder) Reset() {
	r.writer.mu.Lock()
	r.writer.entries = nil
	r.writer.mu.Unlock()
}

func fromLogfLevel(value logf.Level) log.Level {
	switch value {
	case logf.LevelError:
		return log.LevelError
	case logf.LevelWarn:
		return log.LevelWarn
	case logf.LevelDebug:
		return log.LevelDebug
	}
	return log.LevelInfo
}
